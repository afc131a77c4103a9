package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/marcenaria-api/internal/application/catalog"
	"github.com/jportela/marcenaria-api/internal/application/dto"
	"github.com/jportela/marcenaria-api/internal/domain"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products   map[string]*entity.Product
	components map[string][]entity.ProductComponent
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*entity.Product),
		components: make(map[string][]entity.ProductComponent),
	}
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	if _, exists := r.s.products[p.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = p
	return nil
}
func (r *memProductRepo) GetByID(id string) (*entity.Product, error)      { return r.s.products[id], nil }
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.s.products[id], nil }
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return r.ListAll()
}
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

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	componentRepo repository.ComponentRepository,
) error) error {
	return fn(&memProductRepo{t.s}, &memComponentRepo{t.s})
}

func newUseCase(s *memStore) *catalog.ProductUseCase {
	return catalog.NewProductUseCase(&memTxRunner{s}, &memProductRepo{s}, &memComponentRepo{s})
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// cenarioMateriais popula só os materiais brutos; os compostos entram via Create.
func cenarioMateriais() *memStore {
	s := newMemStore()
	s.products["mdf"] = &entity.Product{
		ID: "mdf", Name: "Chapa MDF 15mm", Type: entity.TipoMaterialBruto,
		Unit: "m2", CostPrice: dec("85.50"), CurrentStock: dec("50"),
	}
	s.products["dobradica"] = &entity.Product{
		ID: "dobradica", Name: "Dobradiça 35mm", Type: entity.TipoMaterialBruto,
		Unit: "UN", CostPrice: dec("12.50"), CurrentStock: dec("200"),
	}
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Produto composto tem o cost_price derivado dos snapshots dos componentes:
// 0,5*85,50 + 2*12,50 = 67,75 — o valor enviado no request é ignorado.
func TestCreate_CompostoCalculaCustoDosComponentes(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)

	res, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:      "Porta de armário",
		Type:      entity.TipoProdutoPronto,
		CostPrice: dec("1"),
		SalePrice: dec("150"),
		Components: []dto.ComponentRequest{
			{ComponentID: "mdf", Quantity: dec("0.5")},
			{ComponentID: "dobradica", Quantity: dec("2")},
		},
	})

	require.NoError(t, err)
	assert.True(t, dec("67.75").Equal(res.CostPrice), "esperava 67.75, obteve %s", res.CostPrice)
	require.Len(t, res.Components, 2)
	assert.Equal(t, "Chapa MDF 15mm", res.Components[0].ComponentName)
	assert.True(t, dec("85.50").Equal(res.Components[0].UnitCost), "unit_cost congelado no cadastro")
	assert.True(t, dec("42.75").Equal(res.Components[0].TotalCost))
	assert.Len(t, s.components[res.ID], 2, "arestas persistidas")
}

func TestCreate_UnidadePadraoEhUN(t *testing.T) {
	uc := newUseCase(cenarioMateriais())

	res, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Parafuso 4x40", Type: entity.TipoMaterialBruto, CostPrice: dec("0.15"),
	})

	require.NoError(t, err)
	assert.Equal(t, "UN", res.Unit)
}

// Material bruto é folha da composição: componentes são recusados.
func TestCreate_MaterialBrutoNaoAceitaComponentes(t *testing.T) {
	uc := newUseCase(cenarioMateriais())

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Cola de madeira",
		Type: entity.TipoMaterialBruto,
		Components: []dto.ComponentRequest{
			{ComponentID: "mdf", Quantity: dec("1")},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ComponenteInexistenteNadaPersiste(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Porta",
		Type: entity.TipoProdutoPronto,
		Components: []dto.ComponentRequest{
			{ComponentID: "fantasma", Quantity: dec("1")},
		},
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, s.products, 2, "nenhum produto novo")
	assert.Empty(t, s.components)
}

func TestCreate_QuantidadeNaoPositivaNaAresta(t *testing.T) {
	uc := newUseCase(cenarioMateriais())

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Porta",
		Type: entity.TipoProdutoPronto,
		Components: []dto.ComponentRequest{
			{ComponentID: "mdf", Quantity: decimal.Zero},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ValoresNegativosRecusados(t *testing.T) {
	uc := newUseCase(cenarioMateriais())

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Chapa", Type: entity.TipoMaterialBruto, CostPrice: dec("-1"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update e ciclos
// ──────────────────────────────────────────────────────────────────────────────

// criaPorta registra a porta composta e devolve seu id.
func criaPorta(t *testing.T, uc *catalog.ProductUseCase) string {
	t.Helper()
	res, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:      "Porta de armário",
		Type:      entity.TipoProdutoPronto,
		SalePrice: dec("150"),
		Components: []dto.ComponentRequest{
			{ComponentID: "mdf", Quantity: dec("0.5")},
			{ComponentID: "dobradica", Quantity: dec("2")},
		},
	})
	require.NoError(t, err)
	return res.ID
}

// A porta já depende do MDF; fazer o MDF depender da porta fecharia o ciclo.
// A recusa é síncrona e não deixa mutação parcial: o MDF segue sem arestas.
func TestUpdate_CicloRejeitadoSemMutacao(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)
	portaID := criaPorta(t, uc)

	comps := []dto.ComponentRequest{{ComponentID: portaID, Quantity: dec("1")}}
	_, err := uc.Update(context.Background(), "mdf", dto.UpdateProductRequest{Components: &comps})

	require.ErrorIs(t, err, domain.ErrCircularReference)
	assert.Empty(t, s.components["mdf"], "nenhuma aresta gravada")
	assert.True(t, dec("85.50").Equal(s.products["mdf"].CostPrice), "custo intacto")
}

// Substituição integral da lista: as arestas antigas saem, as novas entram e o
// custo é recalculado sobre os snapshots novos.
func TestUpdate_SubstituiComponentesERecalculaCusto(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)
	portaID := criaPorta(t, uc)

	comps := []dto.ComponentRequest{{ComponentID: "mdf", Quantity: dec("1")}}
	res, err := uc.Update(context.Background(), portaID, dto.UpdateProductRequest{Components: &comps})

	require.NoError(t, err)
	assert.True(t, dec("85.50").Equal(res.CostPrice))
	require.Len(t, s.components[portaID], 1)
	assert.Equal(t, "mdf", s.components[portaID][0].ComponentID)
}

// Manter um componente já existente na lista nova não é falso ciclo: a
// validação roda sobre o snapshot sem as arestas antigas do produto.
func TestUpdate_ReenviarMesmaListaNaoEhCiclo(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)
	portaID := criaPorta(t, uc)

	comps := []dto.ComponentRequest{
		{ComponentID: "mdf", Quantity: dec("0.5")},
		{ComponentID: "dobradica", Quantity: dec("2")},
	}
	_, err := uc.Update(context.Background(), portaID, dto.UpdateProductRequest{Components: &comps})

	assert.NoError(t, err)
}

func TestUpdate_ParcialPreservaDemaisCampos(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)

	nome := "Chapa MDF 18mm"
	res, err := uc.Update(context.Background(), "mdf", dto.UpdateProductRequest{Name: &nome})

	require.NoError(t, err)
	assert.Equal(t, "Chapa MDF 18mm", res.Name)
	assert.Equal(t, "m2", res.Unit)
	assert.True(t, dec("85.50").Equal(res.CostPrice))
}

func TestUpdate_NaoEncontradoDevolveNil(t *testing.T) {
	uc := newUseCase(cenarioMateriais())

	res, err := uc.Update(context.Background(), "fantasma", dto.UpdateProductRequest{})

	require.NoError(t, err)
	assert.Nil(t, res)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

// Componente em uso não pode sair do catálogo: a exclusão é recusada por
// inteiro enquanto houver produto referenciando-o.
func TestDelete_ProdutoReferenciadoEhRecusado(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)
	criaPorta(t, uc)

	err := uc.Delete(context.Background(), "mdf")

	require.ErrorIs(t, err, domain.ErrProductReferenced)
	assert.Contains(t, s.products, "mdf", "produto segue no catálogo")
}

func TestDelete_RemoveProdutoEArestas(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)
	portaID := criaPorta(t, uc)

	err := uc.Delete(context.Background(), portaID)

	require.NoError(t, err)
	assert.NotContains(t, s.products, portaID)
	assert.Empty(t, s.components[portaID])
}

func TestDelete_NaoEncontrado(t *testing.T) {
	uc := newUseCase(cenarioMateriais())

	assert.ErrorIs(t, uc.Delete(context.Background(), "fantasma"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_NaoEncontradoDevolveNil(t *testing.T) {
	uc := newUseCase(cenarioMateriais())

	res, err := uc.GetByID("fantasma")

	require.NoError(t, err)
	assert.Nil(t, res)
}

// Só material bruto e parte de produto podem entrar em composições.
func TestAvailableComponents_ExcluiProdutoPronto(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)
	portaID := criaPorta(t, uc)

	out, err := uc.AvailableComponents()

	require.NoError(t, err)
	assert.Len(t, out, 2)
	for _, p := range out {
		assert.NotEqual(t, portaID, p.ID, "produto_pronto não compõe outros produtos")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Custo recursivo
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeCost_CompostoSobreCustosVivos(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)
	portaID := criaPorta(t, uc)

	res, err := uc.ComputeCost(portaID)

	require.NoError(t, err)
	assert.True(t, dec("67.75").Equal(res.Cost))
}

// Recalcular depois de o custo do material mudar grava o valor novo no produto;
// os snapshots das arestas seguem congelados no momento do cadastro.
func TestRecalculateCost_AposMudancaDoMaterial(t *testing.T) {
	s := cenarioMateriais()
	uc := newUseCase(s)
	portaID := criaPorta(t, uc)

	s.products["mdf"].CostPrice = dec("100")

	res, err := uc.RecalculateCost(context.Background(), portaID)

	require.NoError(t, err)
	assert.True(t, dec("75").Equal(res.Cost), "0,5*100 + 2*12,50")
	assert.True(t, dec("75").Equal(s.products[portaID].CostPrice), "custo gravado")
	assert.True(t, dec("85.50").Equal(s.components[portaID][0].UnitCost), "snapshot intacto")
}

func TestRecalculateCost_NaoEncontradoDevolveNil(t *testing.T) {
	uc := newUseCase(cenarioMateriais())

	res, err := uc.RecalculateCost(context.Background(), "fantasma")

	require.NoError(t, err)
	assert.Nil(t, res)
}
