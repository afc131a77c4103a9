package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

// ComponentRepo arestas de composição (product_components) sobre PostgreSQL.
type ComponentRepo struct {
	q Querier
}

// NewComponentRepository constrói o adaptador de componentes. Passar pool ou tx (Querier).
func NewComponentRepository(q Querier) *ComponentRepo {
	return &ComponentRepo{q: q}
}

// ListByProduct devolve os componentes diretos na ordem de Position.
func (r *ComponentRepo) ListByProduct(productID string) ([]entity.ProductComponent, error) {
	query := `
		SELECT product_id, component_id, component_name, quantity, unit, unit_cost, total_cost, position
		FROM product_components WHERE product_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()
	return scanComponents(rows)
}

// ListAll devolve todas as arestas (snapshot do grafo de composição).
func (r *ComponentRepo) ListAll() ([]entity.ProductComponent, error) {
	query := `
		SELECT product_id, component_id, component_name, quantity, unit, unit_cost, total_cost, position
		FROM product_components ORDER BY product_id, position`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all components: %w", err)
	}
	defer rows.Close()
	return scanComponents(rows)
}

// Insert grava uma aresta de composição.
func (r *ComponentRepo) Insert(component *entity.ProductComponent) error {
	query := `
		INSERT INTO product_components (product_id, component_id, component_name, quantity, unit, unit_cost, total_cost, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		component.ProductID, component.ComponentID, component.ComponentName,
		component.Quantity, component.Unit, component.UnitCost, component.TotalCost,
		component.Position,
	)
	if err != nil {
		return fmt.Errorf("insert component: %w", err)
	}
	return nil
}

// DeleteByProduct remove todas as arestas do produto (substituição por inteiro).
func (r *ComponentRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM product_components WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete components: %w", err)
	}
	return nil
}

// CountReferencing conta quantos produtos usam componentID como componente.
func (r *ComponentRepo) CountReferencing(componentID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM product_components WHERE component_id = $1`, componentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count referencing: %w", err)
	}
	return count, nil
}

func scanComponents(rows pgx.Rows) ([]entity.ProductComponent, error) {
	var components []entity.ProductComponent
	for rows.Next() {
		var c entity.ProductComponent
		if err := rows.Scan(
			&c.ProductID, &c.ComponentID, &c.ComponentName, &c.Quantity,
			&c.Unit, &c.UnitCost, &c.TotalCost, &c.Position,
		); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}
