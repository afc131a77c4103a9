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

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, project_id, project_title, type, category, description, amount, date, created_at`

// TransactionRepo lançamentos financeiros sobre PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository constrói o adaptador financeiro. Passar pool ou tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste um lançamento.
func (r *TransactionRepo) Create(transaction *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, project_id, project_title, type, category, description, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		transaction.ID, transaction.ProjectID, transaction.ProjectTitle,
		transaction.Type, transaction.Category, transaction.Description,
		transaction.Amount, transaction.Date, transaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtém um lançamento.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	var t entity.Transaction
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ProjectID, &t.ProjectTitle, &t.Type, &t.Category,
		&t.Description, &t.Amount, &t.Date, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

// List lista lançamentos com filtros opcionais, mais recentes primeiro.
func (r *TransactionRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.Transaction, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, cond+"$"+strconv.Itoa(len(args)))
	}
	if filter.Type != "" {
		add("type = ", filter.Type)
	}
	if filter.Category != "" {
		add("category = ", filter.Category)
	}
	if filter.ProjectID != "" {
		add("project_id = ", filter.ProjectID)
	}
	if filter.From != nil {
		add("date >= ", *filter.From)
	}
	if filter.To != nil {
		add("date <= ", *filter.To)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListAll devolve todos os lançamentos, mais recentes primeiro.
func (r *TransactionRepo) ListAll() ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// DeleteByProject remove os lançamentos do projeto (exclusão em cascata).
func (r *TransactionRepo) DeleteByProject(projectID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM transactions WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

func scanTransactions(rows pgx.Rows) ([]*entity.Transaction, error) {
	var transactions []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.ProjectTitle, &t.Type, &t.Category,
			&t.Description, &t.Amount, &t.Date, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
