package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/marcenaria-api/internal/application/stock"
	"github.com/jportela/marcenaria-api/internal/domain"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória
//
// O razão só enxerga as portas de repositório, então um mapa por trás de cada
// porta basta para exercitar o caminho completo: bloqueio de linha vira leitura
// direta e a transação vira uma chamada de função.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products   map[string]*entity.Product
	components map[string][]entity.ProductComponent
	movements  []*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*entity.Product),
		components: make(map[string][]entity.ProductComponent),
	}
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return r.ListAll() }
func (r *memProductRepo) ListAll() ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	r.s.products[id].CurrentStock = newStock
	return nil
}
func (r *memProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	r.s.products[id].CostPrice = cost
	return nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.s.products, id); return nil }

type memComponentRepo struct{ s *memStore }

func (r *memComponentRepo) ListByProduct(productID string) ([]entity.ProductComponent, error) {
	return r.s.components[productID], nil
}
func (r *memComponentRepo) ListAll() ([]entity.ProductComponent, error) {
	var out []entity.ProductComponent
	for _, comps := range r.s.components {
		out = append(out, comps...)
	}
	return out, nil
}
func (r *memComponentRepo) Insert(c *entity.ProductComponent) error {
	r.s.components[c.ProductID] = append(r.s.components[c.ProductID], *c)
	return nil
}
func (r *memComponentRepo) DeleteByProduct(productID string) error {
	delete(r.s.components, productID)
	return nil
}
func (r *memComponentRepo) CountReferencing(componentID string) (int, error) {
	n := 0
	for _, comps := range r.s.components {
		for _, c := range comps {
			if c.ComponentID == componentID {
				n++
			}
		}
	}
	return n, nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}
func (r *memMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.ProjectID != "" && m.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
func (r *memMovementRepo) ListAll() ([]*entity.StockMovement, error) { return r.s.movements, nil }
func (r *memMovementRepo) DeleteByProject(projectID string) error {
	kept := r.s.movements[:0]
	for _, m := range r.s.movements {
		if m.ProjectID != projectID {
			kept = append(kept, m)
		}
	}
	r.s.movements = kept
	return nil
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) RunStock(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return fn(&memProductRepo{t.s}, &memMovementRepo{t.s})
}

func newUseCase(s *memStore) *stock.UseCase {
	return stock.NewUseCase(&memTxRunner{s}, &memProductRepo{s}, &memComponentRepo{s}, &memMovementRepo{s})
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// cenarioPorta popula o cenário clássico:
// Porta (produto_pronto, custo 67,75, estoque 10) =
// 0,5x MDF (custo 85,50, estoque 50) + 2x Dobradiça (custo 12,50, estoque 200).
func cenarioPorta() *memStore {
	s := newMemStore()
	s.products["mdf"] = &entity.Product{
		ID: "mdf", Name: "Chapa MDF 15mm", Type: entity.TipoMaterialBruto,
		CostPrice: dec("85.50"), CurrentStock: dec("50"),
	}
	s.products["dobradica"] = &entity.Product{
		ID: "dobradica", Name: "Dobradiça 35mm", Type: entity.TipoMaterialBruto,
		CostPrice: dec("12.50"), CurrentStock: dec("200"),
	}
	s.products["porta"] = &entity.Product{
		ID: "porta", Name: "Porta de armário", Type: entity.TipoProdutoPronto,
		CostPrice: dec("67.75"), CurrentStock: dec("10"),
	}
	s.components["porta"] = []entity.ProductComponent{
		{ProductID: "porta", ComponentID: "mdf", ComponentName: "Chapa MDF 15mm", Quantity: dec("0.5"), UnitCost: dec("85.50"), Position: 0},
		{ProductID: "porta", ComponentID: "dobradica", ComponentName: "Dobradiça 35mm", Quantity: dec("2"), UnitCost: dec("12.50"), Position: 1},
	}
	return s
}

func estoque(t *testing.T, s *memStore, id string) decimal.Decimal {
	t.Helper()
	p, ok := s.products[id]
	require.True(t, ok, "produto %s deveria existir", id)
	return p.CurrentStock
}

// ──────────────────────────────────────────────────────────────────────────────
// Cascata de saída
// ──────────────────────────────────────────────────────────────────────────────

// Saída de 4 portas com cascata debita cada componente na proporção da aresta:
// MDF 0,5*4 = 2 e Dobradiça 2*4 = 8 — um lançamento por produto tocado.
func TestRegisterMovement_SaidaComCascataDebitaComponentes(t *testing.T) {
	s := cenarioPorta()
	uc := newUseCase(s)

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta",
		Type:      entity.MovimentoSaida,
		Quantity:  dec("4"),
		Cascade:   true,
		UserID:    "user-1",
	})

	require.NoError(t, err)
	assert.True(t, dec("6").Equal(estoque(t, s, "porta")), "porta: 10 - 4")
	assert.True(t, dec("48").Equal(estoque(t, s, "mdf")), "mdf: 50 - 0,5*4")
	assert.True(t, dec("192").Equal(estoque(t, s, "dobradica")), "dobradiça: 200 - 2*4")
	require.Len(t, s.movements, 3, "um lançamento por produto")
}

// Em três níveis o requisito escala multiplicativamente:
// Armário = 2x Porta => saída de 3 armários debita 6 portas, 3 de MDF e 12 dobradiças.
func TestRegisterMovement_CascataEmTresNiveis(t *testing.T) {
	s := cenarioPorta()
	s.products["armario"] = &entity.Product{
		ID: "armario", Name: "Armário 2 portas", Type: entity.TipoProdutoPronto,
		CostPrice: dec("135.50"), CurrentStock: dec("5"),
	}
	s.components["armario"] = []entity.ProductComponent{
		{ProductID: "armario", ComponentID: "porta", ComponentName: "Porta de armário", Quantity: dec("2"), UnitCost: dec("67.75"), Position: 0},
	}
	uc := newUseCase(s)

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "armario",
		Type:      entity.MovimentoSaida,
		Quantity:  dec("3"),
		Cascade:   true,
	})

	require.NoError(t, err)
	assert.True(t, dec("2").Equal(estoque(t, s, "armario")))
	assert.True(t, dec("4").Equal(estoque(t, s, "porta")), "porta: 10 - 2*3")
	assert.True(t, dec("47").Equal(estoque(t, s, "mdf")), "mdf: 50 - 0,5*2*3")
	assert.True(t, dec("188").Equal(estoque(t, s, "dobradica")), "dobradiça: 200 - 2*2*3")
	assert.Len(t, s.movements, 4)
}

// O lançamento congela o custo do produto no momento do movimento
// (unit_price = cost_price; total = quantidade * unit_price).
func TestRegisterMovement_LancamentoCarregaSnapshotDeCusto(t *testing.T) {
	s := cenarioPorta()
	uc := newUseCase(s)

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta",
		Type:      entity.MovimentoSaida,
		Quantity:  dec("2"),
		UserID:    "user-1",
	})

	require.NoError(t, err)
	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, "porta", m.ProductID)
	assert.Equal(t, "Porta de armário", m.ProductName)
	assert.Equal(t, entity.MovimentoSaida, m.Type)
	assert.True(t, dec("67.75").Equal(m.UnitPrice))
	assert.True(t, dec("135.50").Equal(m.TotalValue))
	assert.Equal(t, entity.ReferenciaManual, m.ReferenceType)
	assert.Equal(t, "user-1", m.CreatedBy)
	assert.False(t, m.Date.IsZero(), "data vazia vira hoje")
}

// Movimento atado a projeto carrega reference_type = projeto.
func TestRegisterMovement_ComProjetoMarcaReferencia(t *testing.T) {
	s := cenarioPorta()
	uc := newUseCase(s)

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta",
		Type:      entity.MovimentoSaida,
		Quantity:  dec("1"),
		ProjectID: "proj-1",
		Cascade:   true,
	})

	require.NoError(t, err)
	require.Len(t, s.movements, 3)
	for _, m := range s.movements {
		assert.Equal(t, "proj-1", m.ProjectID, "a cascata propaga o projeto")
		assert.Equal(t, entity.ReferenciaProjeto, m.ReferenceType)
	}
}

// Sem cascata, só o próprio produto é tocado.
func TestRegisterMovement_SemCascataNaoPropaga(t *testing.T) {
	s := cenarioPorta()
	uc := newUseCase(s)

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta",
		Type:      entity.MovimentoSaida,
		Quantity:  dec("4"),
		Cascade:   false,
	})

	require.NoError(t, err)
	assert.True(t, dec("50").Equal(estoque(t, s, "mdf")))
	assert.True(t, dec("200").Equal(estoque(t, s, "dobradica")))
	assert.Len(t, s.movements, 1)
}

// Entrada nunca cascateia, mesmo com cascade=true: repor produto pronto não
// devolve matéria-prima à prateleira.
func TestRegisterMovement_EntradaNaoCascateia(t *testing.T) {
	s := cenarioPorta()
	uc := newUseCase(s)

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta",
		Type:      entity.MovimentoEntrada,
		Quantity:  dec("5"),
		Cascade:   true,
	})

	require.NoError(t, err)
	assert.True(t, dec("15").Equal(estoque(t, s, "porta")))
	assert.True(t, dec("50").Equal(estoque(t, s, "mdf")))
	assert.True(t, dec("200").Equal(estoque(t, s, "dobradica")))
	assert.Len(t, s.movements, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Piso zero e entradas inválidas
// ──────────────────────────────────────────────────────────────────────────────

// Saída maior que o disponível trava o estoque no piso zero; o lançamento
// registra a quantidade pedida, não a aplicada.
func TestRegisterMovement_SaidaMaiorQueEstoqueTravaNoZero(t *testing.T) {
	s := cenarioPorta()
	uc := newUseCase(s)

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta",
		Type:      entity.MovimentoSaida,
		Quantity:  dec("100"),
	})

	require.NoError(t, err)
	assert.True(t, estoque(t, s, "porta").IsZero(), "estoque nunca fica negativo")
	require.Len(t, s.movements, 1)
	assert.True(t, dec("100").Equal(s.movements[0].Quantity))
}

func TestRegisterMovement_TipoInvalido(t *testing.T) {
	uc := newUseCase(cenarioPorta())

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta", Type: "transferencia", Quantity: dec("1"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_QuantidadeNaoPositiva(t *testing.T) {
	uc := newUseCase(cenarioPorta())

	for _, q := range []string{"0", "-3"} {
		err := uc.RegisterMovement(context.Background(), stock.MovementInput{
			ProductID: "porta", Type: entity.MovimentoSaida, Quantity: dec(q),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "quantidade %s", q)
	}
}

func TestRegisterMovement_ProdutoInexistente(t *testing.T) {
	uc := newUseCase(cenarioPorta())

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "fantasma", Type: entity.MovimentoSaida, Quantity: dec("1"),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Aresta apontando para produto já excluído no meio da travessia é benigna:
// a cascata segue nos demais componentes sem erro.
func TestRegisterMovement_ComponenteExcluidoNaCascataEhBenigno(t *testing.T) {
	s := cenarioPorta()
	delete(s.products, "mdf")
	uc := newUseCase(s)

	err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta",
		Type:      entity.MovimentoSaida,
		Quantity:  dec("2"),
		Cascade:   true,
	})

	require.NoError(t, err)
	assert.True(t, dec("196").Equal(estoque(t, s, "dobradica")), "dobradiça ainda é debitada")
	assert.Len(t, s.movements, 2, "porta e dobradiça; nada para o MDF excluído")
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidade
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability_Disponivel(t *testing.T) {
	uc := newUseCase(cenarioPorta())

	res, err := uc.CheckAvailability("porta", dec("10"))

	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.True(t, dec("10").Equal(res.CurrentStock))
	assert.True(t, dec("10").Equal(res.Required))
}

// O primeiro componente em déficit aborta a checagem e devolve seus números.
func TestCheckAvailability_DeficitReportaComponente(t *testing.T) {
	uc := newUseCase(cenarioPorta())

	res, err := uc.CheckAvailability("porta", dec("1000"))

	require.NoError(t, err)
	require.False(t, res.Available)
	assert.True(t, dec("50").Equal(res.CurrentStock), "estoque do MDF")
	assert.True(t, dec("500").Equal(res.Required), "0,5 * 1000")
}

// Checagem é somente leitura: não muda estoque nem gera lançamento.
func TestCheckAvailability_NaoTemEfeitoColateral(t *testing.T) {
	s := cenarioPorta()
	uc := newUseCase(s)

	_, err := uc.CheckAvailability("porta", dec("1000"))

	require.NoError(t, err)
	assert.True(t, dec("10").Equal(estoque(t, s, "porta")))
	assert.True(t, dec("50").Equal(estoque(t, s, "mdf")))
	assert.Empty(t, s.movements)
}

func TestCheckAvailability_QuantidadeNaoPositiva(t *testing.T) {
	uc := newUseCase(cenarioPorta())

	_, err := uc.CheckAvailability("porta", decimal.Zero)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listagem do razão
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltraPorProduto(t *testing.T) {
	s := cenarioPorta()
	uc := newUseCase(s)
	require.NoError(t, uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "porta", Type: entity.MovimentoSaida, Quantity: dec("1"), Cascade: true,
	}))

	res, err := uc.ListMovements(repository.MovementFilter{ProductID: "dobradica"}, 50, 0)

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "dobradica", res.Items[0].ProductID)
	assert.True(t, dec("2").Equal(res.Items[0].Quantity))
}
