package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status do projeto.
const (
	StatusOrcamento  = "orcamento"
	StatusAprovado   = "aprovado"
	StatusEmProducao = "em_producao"
	StatusConcluido  = "concluido"
	StatusEntregue   = "entregue"
)

// Tipos de projeto.
const (
	ProjetoOrcamento = "orcamento"
	ProjetoVenda     = "venda"
)

// Formas de pagamento aceitas.
const (
	PagamentoDinheiro      = "dinheiro"
	PagamentoPix           = "pix"
	PagamentoCartaoCredito = "cartao_credito"
	PagamentoCartaoDebito  = "cartao_debito"
	PagamentoBoleto        = "boleto"
	PagamentoTransferencia = "transferencia"
)

// ProjectItem é uma linha do projeto (produto vendido e quantidade).
type ProjectItem struct {
	ID          string
	ProjectID   string
	ProductID   string
	ProductName string // snapshot
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Position    int
}

// PaymentTerms condições de pagamento negociadas para o projeto.
type PaymentTerms struct {
	Installments       int
	PaymentMethod      string
	DiscountPercentage decimal.Decimal
	InstallmentValue   decimal.Decimal
	TotalWithDiscount  decimal.Decimal
}

// Project representa um orçamento ou venda para um cliente. A aprovação de uma
// venda dispara a transação de sinal e o consumo de estoque dos itens.
type Project struct {
	ID            string
	Number        int // sequencial, atribuído na criação
	ClientID      string
	ClientName    string // snapshot
	Title         string
	Description   string
	Status        string
	Type          string
	Items         []ProjectItem
	Budget        decimal.Decimal
	StartDate     time.Time
	EndDate       time.Time
	MaterialsCost decimal.Decimal
	LaborCost     decimal.Decimal
	ProfitMargin  decimal.Decimal
	PaymentTerms  *PaymentTerms
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
