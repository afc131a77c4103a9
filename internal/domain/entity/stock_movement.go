package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimento de estoque.
const (
	MovimentoEntrada = "entrada"
	MovimentoSaida   = "saida"
)

// Origem do movimento (manual ou derivado de um projeto).
const (
	ReferenciaManual  = "manual"
	ReferenciaProjeto = "project"
)

// StockMovement é um lançamento imutável do razão de estoque. Correções são
// feitas com novos lançamentos de compensação, nunca editando o histórico;
// a exclusão só acontece em cascata quando o projeto dono é excluído.
type StockMovement struct {
	ID            string
	ProductID     string
	ProductName   string // snapshot no momento do lançamento
	Type          string // entrada, saida
	Quantity      decimal.Decimal // > 0
	UnitPrice     decimal.Decimal // snapshot do cost_price do produto
	TotalValue    decimal.Decimal // Quantity * UnitPrice
	ProjectID     string          // vazio em movimentos manuais
	ReferenceType string          // manual, project
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
