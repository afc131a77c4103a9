package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jportela/marcenaria-api/internal/application/catalog"
	"github.com/jportela/marcenaria-api/internal/application/projects"
	"github.com/jportela/marcenaria-api/internal/application/stock"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

var _ catalog.TxRunner = (*TxRunner)(nil)
var _ stock.TxRunner = (*TxRunner)(nil)
var _ projects.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL, entregando
// repositórios atados à tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transação do catálogo: produto + arestas de composição atomicamente.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	componentRepo repository.ComponentRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewProductRepository(tx), NewComponentRepository(tx))
	})
}

// RunStock transação de um movimento individual de estoque (leitura com
// bloqueio de linha, saldo novo e lançamento no razão).
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewProductRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunProject transação da orquestração de projetos (criação com sinal,
// conclusão com pagamento final, exclusão em cascata).
func (r *TxRunner) RunProject(ctx context.Context, fn func(
	projectRepo repository.ProjectRepository,
	transactionRepo repository.TransactionRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewProjectRepository(tx), NewTransactionRepository(tx), NewStockMovementRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
