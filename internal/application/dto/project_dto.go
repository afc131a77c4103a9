package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectItemRequest uma linha do projeto.
type ProjectItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentTermsDTO condições de pagamento.
type PaymentTermsDTO struct {
	Installments       int             `json:"installments" validate:"omitempty,min=1,max=48"`
	PaymentMethod      string          `json:"payment_method" validate:"omitempty,oneof=dinheiro pix cartao_credito cartao_debito boleto transferencia"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	InstallmentValue   decimal.Decimal `json:"installment_value"`
	TotalWithDiscount  decimal.Decimal `json:"total_with_discount"`
}

// CreateProjectRequest entrada para criar um projeto (orçamento ou venda).
type CreateProjectRequest struct {
	ClientID      string               `json:"client_id" validate:"required"`
	Title         string               `json:"title" validate:"required,min=1,max=200"`
	Description   string               `json:"description"`
	Status        string               `json:"status" validate:"required,oneof=orcamento aprovado em_producao concluido entregue"`
	Type          string               `json:"type" validate:"required,oneof=orcamento venda"`
	Items         []ProjectItemRequest `json:"items" validate:"omitempty,dive"`
	Budget        decimal.Decimal      `json:"budget"`
	StartDate     string               `json:"start_date"` // YYYY-MM-DD
	EndDate       string               `json:"end_date"`   // YYYY-MM-DD
	MaterialsCost decimal.Decimal      `json:"materials_cost"`
	LaborCost     decimal.Decimal      `json:"labor_cost"`
	ProfitMargin  decimal.Decimal      `json:"profit_margin"`
	PaymentTerms  *PaymentTermsDTO     `json:"payment_terms"`
}

// UpdateProjectRequest atualização parcial; Items substitui a lista por inteiro.
type UpdateProjectRequest struct {
	Title         *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string               `json:"description"`
	Status        *string               `json:"status" validate:"omitempty,oneof=orcamento aprovado em_producao concluido entregue"`
	Items         *[]ProjectItemRequest `json:"items" validate:"omitempty,dive"`
	Budget        *decimal.Decimal      `json:"budget"`
	StartDate     *string               `json:"start_date"`
	EndDate       *string               `json:"end_date"`
	MaterialsCost *decimal.Decimal      `json:"materials_cost"`
	LaborCost     *decimal.Decimal      `json:"labor_cost"`
	ProfitMargin  *decimal.Decimal      `json:"profit_margin"`
	PaymentTerms  *PaymentTermsDTO      `json:"payment_terms"`
}

// ProjectItemResponse linha do projeto com snapshot do produto.
type ProjectItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// ProjectResponse saída de um projeto.
type ProjectResponse struct {
	ID            string                `json:"id"`
	Number        int                   `json:"number"`
	ClientID      string                `json:"client_id"`
	ClientName    string                `json:"client_name"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Status        string                `json:"status"`
	Type          string                `json:"type"`
	Items         []ProjectItemResponse `json:"items"`
	Budget        decimal.Decimal       `json:"budget"`
	StartDate     string                `json:"start_date"`
	EndDate       string                `json:"end_date"`
	MaterialsCost decimal.Decimal       `json:"materials_cost"`
	LaborCost     decimal.Decimal       `json:"labor_cost"`
	ProfitMargin  decimal.Decimal       `json:"profit_margin"`
	PaymentTerms  *PaymentTermsDTO      `json:"payment_terms,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ProjectListResponse lista paginada de projetos.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
