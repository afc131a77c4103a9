package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/stock/movements.
// Cascade controla a propagação de saídas pelos componentes do produto;
// ajustes manuais de um único item usam cascade=false.
type RegisterMovementRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Type      string          `json:"type" validate:"required,oneof=entrada saida"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	ProjectID string          `json:"project_id"`
	Cascade   bool            `json:"cascade"`
	Date      *time.Time      `json:"date"`
}

// MovementResponse saída de um lançamento do razão de estoque.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalValue    decimal.Decimal `json:"total_value"`
	ProjectID     string          `json:"project_id,omitempty"`
	ReferenceType string          `json:"reference_type"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimentos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
