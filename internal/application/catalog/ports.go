package catalog

import (
	"context"

	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de banco, passando
// repositórios atados a essa tx. Garante que criação/atualização/exclusão de
// produto com componentes seja atômica: ou todas as arestas novas entram e as
// antigas saem, ou nada muda.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		componentRepo repository.ComponentRepository,
	) error) error
}
