package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentRequest uma aresta de composição no cadastro de produto.
type ComponentRequest struct {
	ComponentID string          `json:"component_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
}

// CreateProductRequest entrada para criar um produto.
// Componentes só são aceitos em parte_produto e produto_pronto; o cost_price
// de compostos é calculado a partir dos snapshots dos componentes.
type CreateProductRequest struct {
	Name         string             `json:"name" validate:"required,min=1,max=200"`
	Description  string             `json:"description"`
	Category     string             `json:"category"`
	Type         string             `json:"type" validate:"required,oneof=material_bruto parte_produto produto_pronto"`
	Unit         string             `json:"unit"`
	CostPrice    decimal.Decimal    `json:"cost_price"`
	SalePrice    decimal.Decimal    `json:"sale_price"`
	CurrentStock decimal.Decimal    `json:"current_stock"`
	MinStock     decimal.Decimal    `json:"min_stock"`
	Supplier     string             `json:"supplier"`
	Components   []ComponentRequest `json:"components" validate:"omitempty,dive"`
}

// UpdateProductRequest entrada para atualização parcial. Components, quando
// presente, substitui a lista por inteiro (revalida ciclos e recalcula custo).
type UpdateProductRequest struct {
	Name         *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string             `json:"description"`
	Category     *string             `json:"category"`
	Unit         *string             `json:"unit"`
	CostPrice    *decimal.Decimal    `json:"cost_price"`
	SalePrice    *decimal.Decimal    `json:"sale_price"`
	MinStock     *decimal.Decimal    `json:"min_stock"`
	Supplier     *string             `json:"supplier"`
	Components   *[]ComponentRequest `json:"components" validate:"omitempty,dive"`
}

// ComponentResponse aresta de composição com o snapshot gravado.
type ComponentResponse struct {
	ComponentID   string          `json:"component_id"`
	ComponentName string          `json:"component_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// ProductResponse saída de um produto.
type ProductResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	Type         string              `json:"type"`
	Unit         string              `json:"unit"`
	CostPrice    decimal.Decimal     `json:"cost_price"`
	SalePrice    decimal.Decimal     `json:"sale_price"`
	CurrentStock decimal.Decimal     `json:"current_stock"`
	MinStock     decimal.Decimal     `json:"min_stock"`
	Supplier     string              `json:"supplier"`
	Components   []ComponentResponse `json:"components"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ProductListResponse lista paginada de produtos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CostResponse custo recursivo calculado de um produto.
type CostResponse struct {
	ProductID string          `json:"product_id"`
	Cost      decimal.Decimal `json:"cost"`
}

// AvailabilityResponse resultado da checagem de disponibilidade.
type AvailabilityResponse struct {
	Available    bool            `json:"available"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Required     decimal.Decimal `json:"required"`
}
