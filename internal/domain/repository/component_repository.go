package repository

import "github.com/jportela/marcenaria-api/internal/domain/entity"

// ComponentRepository define a porta de persistência para as arestas de
// composição (product_components), sempre com snapshot do componente.
type ComponentRepository interface {
	// ListByProduct devolve os componentes diretos do produto na ordem de Position.
	ListByProduct(productID string) ([]entity.ProductComponent, error)
	// ListAll devolve todas as arestas, para montar o snapshot do grafo.
	ListAll() ([]entity.ProductComponent, error)
	Insert(component *entity.ProductComponent) error
	DeleteByProduct(productID string) error
	// CountReferencing conta quantos produtos usam componentID como componente
	// (guarda de integridade referencial na exclusão).
	CountReferencing(componentID string) (int, error)
}
