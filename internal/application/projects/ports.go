package projects

import (
	"context"

	"github.com/jportela/marcenaria-api/internal/application/stock"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de banco. Usado para
// criar projeto + transação de sinal atomicamente e para a exclusão em
// cascata (transações, movimentos, itens e projeto numa tx só).
type TxRunner interface {
	RunProject(ctx context.Context, fn func(
		projectRepo repository.ProjectRepository,
		transactionRepo repository.TransactionRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// StockConsumer consome estoque dos itens na aprovação de uma venda.
// Implementado pelo razão de estoque (stock.UseCase).
type StockConsumer interface {
	RegisterMovement(ctx context.Context, input stock.MovementInput) error
}

// CompanyInfo dados da marcenaria para o cabeçalho do orçamento em PDF.
type CompanyInfo struct {
	Name    string
	CNPJ    string
	Address string
	Phone   string
	Email   string
}

// BudgetPDFGenerator gera o documento de orçamento do projeto.
type BudgetPDFGenerator interface {
	GenerateBudgetPDF(ctx context.Context, project *entity.Project, client *entity.Client, company CompanyInfo) ([]byte, error)
}
