package repository

import (
	"time"

	"github.com/jportela/marcenaria-api/internal/domain/entity"
)

// MovementFilter filtros de listagem do razão de estoque.
type MovementFilter struct {
	ProductID string
	ProjectID string
	Type      string // entrada, saida
	From      *time.Time
	To        *time.Time
}

// StockMovementRepository define a porta de persistência do razão de estoque.
// O razão é append-only: não há Update; Delete existe apenas em cascata,
// quando o projeto dono do movimento é excluído.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	ListAll() ([]*entity.StockMovement, error)
	DeleteByProject(projectID string) error
}
