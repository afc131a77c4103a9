package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de produto. Um material_bruto é folha da árvore de composição:
// seu custo é autoritativo e ele nunca tem componentes.
const (
	TipoMaterialBruto = "material_bruto"
	TipoParteProduto  = "parte_produto"
	TipoProdutoPronto = "produto_pronto"
)

// Product representa um produto do catálogo (matéria-prima, parte ou produto acabado).
// CostPrice de um produto composto é derivado dos componentes; CurrentStock é
// atualizado exclusivamente via movimentos de estoque.
type Product struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Type         string // material_bruto, parte_produto, produto_pronto
	Unit         string // UN, M, M2, KG...
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	Supplier     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsComposed informa se o produto pode ter componentes.
func (p *Product) IsComposed() bool {
	return p.Type == TipoParteProduto || p.Type == TipoProdutoPronto
}

// ProductComponent representa uma aresta da composição (produto -> componente),
// com snapshot do componente no momento da associação: UnitCost congela o
// cost_price do componente e não acompanha alterações posteriores.
type ProductComponent struct {
	ProductID     string
	ComponentID   string
	ComponentName string
	Quantity      decimal.Decimal // > 0
	Unit          string
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal // Quantity * UnitCost
	Position      int             // ordem de exibição e de travessia
}
