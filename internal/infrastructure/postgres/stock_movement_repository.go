package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, product_name, type, quantity, unit_price, total_value, project_id, reference_type, date, created_at, created_by`

// StockMovementRepo razão de estoque sobre PostgreSQL (append-only).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository constrói o adaptador do razão. Passar pool ou tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create anexa um movimento ao razão.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, product_name, type, quantity, unit_price, total_value, project_id, reference_type, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.ProductName, movement.Type,
		movement.Quantity, movement.UnitPrice, movement.TotalValue,
		movement.ProjectID, movement.ReferenceType, movement.Date,
		movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtém um movimento.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity, &m.UnitPrice,
		&m.TotalValue, &m.ProjectID, &m.ReferenceType, &m.Date, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// List lista movimentos com filtros opcionais, mais recentes primeiro.
func (r *StockMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, cond+"$"+strconv.Itoa(len(args)))
	}
	if filter.ProductID != "" {
		add("product_id = ", filter.ProductID)
	}
	if filter.ProjectID != "" {
		add("project_id = ", filter.ProjectID)
	}
	if filter.Type != "" {
		add("type = ", filter.Type)
	}
	if filter.From != nil {
		add("date >= ", *filter.From)
	}
	if filter.To != nil {
		add("date <= ", *filter.To)
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListAll devolve o razão inteiro, mais recentes primeiro.
func (r *StockMovementRepo) ListAll() ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// DeleteByProject remove os movimentos do projeto (exclusão em cascata).
func (r *StockMovementRepo) DeleteByProject(projectID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_movements WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity, &m.UnitPrice,
			&m.TotalValue, &m.ProjectID, &m.ReferenceType, &m.Date, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, rows.Err()
}
