package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transação financeira (mesma convenção dos movimentos de estoque).
const (
	TransacaoEntrada = "entrada"
	TransacaoSaida   = "saida"
)

// Categorias geradas automaticamente pela orquestração de projetos.
const (
	CategoriaSinal          = "Sinal"
	CategoriaPagamentoFinal = "Pagamento Final"
)

// Transaction representa um lançamento financeiro (recebimento ou pagamento),
// opcionalmente vinculado a um projeto.
type Transaction struct {
	ID           string
	ProjectID    string // vazio quando avulsa
	ProjectTitle string // snapshot
	Type         string // entrada, saida
	Category     string
	Description  string
	Amount       decimal.Decimal
	Date         time.Time
	CreatedAt    time.Time
}
