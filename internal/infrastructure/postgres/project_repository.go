package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

const projectColumns = `id, number, client_id, client_name, title, description, status, type,
	budget, start_date, end_date, materials_cost, labor_cost, profit_margin,
	pt_installments, pt_payment_method, pt_discount_percentage, pt_installment_value, pt_total_with_discount,
	created_at, updated_at`

// ProjectRepo implementação de ProjectRepository sobre PostgreSQL. As condições
// de pagamento são colunas anuláveis (pt_*) na própria tabela de projetos.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository constrói o adaptador de projetos. Passar pool ou tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Create insere o projeto e os itens. Atômico quando o Querier é uma tx.
func (r *ProjectRepo) Create(project *entity.Project) error {
	query := `
		INSERT INTO projects (id, number, client_id, client_name, title, description, status, type,
			budget, start_date, end_date, materials_cost, labor_cost, profit_margin,
			pt_installments, pt_payment_method, pt_discount_percentage, pt_installment_value, pt_total_with_discount,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	installments, method, discount, installmentValue, totalWithDiscount := paymentTermsColumns(project.PaymentTerms)
	_, err := r.q.Exec(context.Background(), query,
		project.ID, project.Number, project.ClientID, project.ClientName,
		project.Title, project.Description, project.Status, project.Type,
		project.Budget, project.StartDate, project.EndDate,
		project.MaterialsCost, project.LaborCost, project.ProfitMargin,
		installments, method, discount, installmentValue, totalWithDiscount,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return r.insertItems(project.ID, project.Items)
}

// GetByID devolve o projeto com os itens carregados.
func (r *ProjectRepo) GetByID(id string) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	project, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil || project == nil {
		return project, err
	}
	items, err := r.listItems(id)
	if err != nil {
		return nil, err
	}
	project.Items = items
	return project, nil
}

// List lista projetos com paginação, mais recentes primeiro, com itens.
func (r *ProjectRepo) List(limit, offset int) ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY number DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	projects, err := r.scanMany(rows)
	if err != nil {
		return nil, err
	}
	return r.attachItems(projects)
}

// ListAll devolve todos os projetos com itens (exportação CSV).
func (r *ProjectRepo) ListAll() ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY number DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all projects: %w", err)
	}
	defer rows.Close()
	projects, err := r.scanMany(rows)
	if err != nil {
		return nil, err
	}
	return r.attachItems(projects)
}

// NextNumber devolve o próximo número sequencial de projeto.
func (r *ProjectRepo) NextNumber() (int, error) {
	var next int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(number), 0) + 1 FROM projects`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next project number: %w", err)
	}
	return next, nil
}

// Update regrava os campos do projeto e substitui os itens por inteiro.
func (r *ProjectRepo) Update(project *entity.Project) error {
	query := `
		UPDATE projects
		SET client_id = $2, client_name = $3, title = $4, description = $5, status = $6,
		    type = $7, budget = $8, start_date = $9, end_date = $10, materials_cost = $11,
		    labor_cost = $12, profit_margin = $13, pt_installments = $14, pt_payment_method = $15,
		    pt_discount_percentage = $16, pt_installment_value = $17, pt_total_with_discount = $18,
		    updated_at = $19
		WHERE id = $1`
	installments, method, discount, installmentValue, totalWithDiscount := paymentTermsColumns(project.PaymentTerms)
	_, err := r.q.Exec(context.Background(), query,
		project.ID, project.ClientID, project.ClientName, project.Title,
		project.Description, project.Status, project.Type, project.Budget,
		project.StartDate, project.EndDate, project.MaterialsCost,
		project.LaborCost, project.ProfitMargin,
		installments, method, discount, installmentValue, totalWithDiscount,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM project_items WHERE project_id = $1`, project.ID); err != nil {
		return fmt.Errorf("delete project items: %w", err)
	}
	return r.insertItems(project.ID, project.Items)
}

// Delete remove o projeto e os itens.
func (r *ProjectRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM project_items WHERE project_id = $1`, id); err != nil {
		return fmt.Errorf("delete project items: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) insertItems(projectID string, items []entity.ProjectItem) error {
	query := `
		INSERT INTO project_items (id, project_id, product_id, product_name, quantity, unit_price, total_price, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, item := range items {
		_, err := r.q.Exec(context.Background(), query,
			item.ID, projectID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.Position,
		)
		if err != nil {
			return fmt.Errorf("insert project item: %w", err)
		}
	}
	return nil
}

func (r *ProjectRepo) listItems(projectID string) ([]entity.ProjectItem, error) {
	query := `
		SELECT id, project_id, product_id, product_name, quantity, unit_price, total_price, position
		FROM project_items WHERE project_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project items: %w", err)
	}
	defer rows.Close()

	var items []entity.ProjectItem
	for rows.Next() {
		var item entity.ProjectItem
		if err := rows.Scan(
			&item.ID, &item.ProjectID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Position,
		); err != nil {
			return nil, fmt.Errorf("scan project item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ProjectRepo) attachItems(projects []*entity.Project) ([]*entity.Project, error) {
	for _, p := range projects {
		items, err := r.listItems(p.ID)
		if err != nil {
			return nil, err
		}
		p.Items = items
	}
	return projects, nil
}

func (r *ProjectRepo) scanOne(row pgx.Row) (*entity.Project, error) {
	p, err := scanProject(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepo) scanMany(rows pgx.Rows) ([]*entity.Project, error) {
	var projects []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(scan func(dest ...any) error) (*entity.Project, error) {
	var p entity.Project
	var installments *int
	var method *string
	var discount, installmentValue, totalWithDiscount *decimal.Decimal
	err := scan(
		&p.ID, &p.Number, &p.ClientID, &p.ClientName, &p.Title, &p.Description,
		&p.Status, &p.Type, &p.Budget, &p.StartDate, &p.EndDate,
		&p.MaterialsCost, &p.LaborCost, &p.ProfitMargin,
		&installments, &method, &discount, &installmentValue, &totalWithDiscount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if installments != nil {
		p.PaymentTerms = &entity.PaymentTerms{
			Installments:       *installments,
			PaymentMethod:      deref(method, ""),
			DiscountPercentage: derefDecimal(discount),
			InstallmentValue:   derefDecimal(installmentValue),
			TotalWithDiscount:  derefDecimal(totalWithDiscount),
		}
	}
	return &p, nil
}

func paymentTermsColumns(pt *entity.PaymentTerms) (*int, *string, *decimal.Decimal, *decimal.Decimal, *decimal.Decimal) {
	if pt == nil {
		return nil, nil, nil, nil, nil
	}
	return &pt.Installments, &pt.PaymentMethod, &pt.DiscountPercentage, &pt.InstallmentValue, &pt.TotalWithDiscount
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func derefDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
