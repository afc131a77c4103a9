package stock

import (
	"context"

	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de banco, passando
// repositórios atados a essa tx. Cada movimento individual (ler estoque com
// bloqueio de linha, gravar estoque novo, anexar o lançamento) roda em UMA
// transação, eliminando o lost update entre escritores concorrentes.
// A cascata entre produtos NÃO é uma transação única: cada nível roda na sua.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
