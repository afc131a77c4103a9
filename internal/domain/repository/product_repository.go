package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jportela/marcenaria-api/internal/domain/entity"
)

// ProductRepository define a porta de persistência para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloqueia a linha (SELECT FOR UPDATE); usar só dentro de transação.
	GetForUpdate(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	// ListAll devolve o catálogo inteiro, usado para montar o snapshot do grafo
	// de composição (catálogos de marcenaria são pequenos).
	ListAll() ([]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, newStock decimal.Decimal) error
	UpdateCost(productID string, cost decimal.Decimal) error
	Delete(id string) error
}
