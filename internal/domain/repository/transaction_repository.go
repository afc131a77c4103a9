package repository

import (
	"time"

	"github.com/jportela/marcenaria-api/internal/domain/entity"
)

// TransactionFilter filtros de listagem financeira.
type TransactionFilter struct {
	Type      string // entrada, saida
	Category  string
	ProjectID string
	From      *time.Time
	To        *time.Time
}

// TransactionRepository define a porta de persistência para lançamentos financeiros.
type TransactionRepository interface {
	Create(transaction *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	List(filter TransactionFilter, limit, offset int) ([]*entity.Transaction, error)
	ListAll() ([]*entity.Transaction, error)
	DeleteByProject(projectID string) error
}
