package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest entrada para lançar uma transação financeira.
type CreateTransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=entrada saida"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        string          `json:"date"` // YYYY-MM-DD, padrão hoje
	ProjectID   string          `json:"project_id"`
}

// TransactionResponse saída de uma transação.
type TransactionResponse struct {
	ID           string          `json:"id"`
	ProjectID    string          `json:"project_id,omitempty"`
	ProjectTitle string          `json:"project_title,omitempty"`
	Type         string          `json:"type"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionListResponse lista paginada de transações.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
