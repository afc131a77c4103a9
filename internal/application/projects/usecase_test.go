package projects_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/marcenaria-api/internal/application/dto"
	"github.com/jportela/marcenaria-api/internal/application/projects"
	"github.com/jportela/marcenaria-api/internal/application/stock"
	"github.com/jportela/marcenaria-api/internal/domain"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	clients      map[string]*entity.Client
	products     map[string]*entity.Product
	projects     map[string]*entity.Project
	transactions []*entity.Transaction
	movements    []*entity.StockMovement
	nextNumber   int

	// consumos registrados pelo StockConsumer fake, na ordem de chamada.
	consumed []stock.MovementInput
}

func newMemStore() *memStore {
	return &memStore{
		clients:    make(map[string]*entity.Client),
		products:   make(map[string]*entity.Product),
		projects:   make(map[string]*entity.Project),
		nextNumber: 1,
	}
}

type memClientRepo struct{ s *memStore }

func (r *memClientRepo) Create(c *entity.Client) error { r.s.clients[c.ID] = c; return nil }
func (r *memClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.s.clients[id], nil
}
func (r *memClientRepo) GetByName(name string) (*entity.Client, error) {
	for _, c := range r.s.clients {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}
func (r *memClientRepo) List(limit, offset int) ([]*entity.Client, error) { return r.ListAll() }
func (r *memClientRepo) ListAll() ([]*entity.Client, error) {
	out := make([]*entity.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		out = append(out, c)
	}
	return out, nil
}
func (r *memClientRepo) Update(c *entity.Client) error { r.s.clients[c.ID] = c; return nil }
func (r *memClientRepo) Delete(id string) error        { delete(r.s.clients, id); return nil }
func (r *memClientRepo) Stats(clientID string) (*entity.ClientStats, error) {
	stats := &entity.ClientStats{TotalValue: decimal.Zero}
	for _, p := range r.s.projects {
		if p.ClientID == clientID {
			stats.TotalProjects++
			stats.TotalValue = stats.TotalValue.Add(p.Budget)
		}
	}
	return stats, nil
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
func (r *memProductRepo) Update(p *entity.Product) error                         { return nil }
func (r *memProductRepo) UpdateStock(id string, newStock decimal.Decimal) error  { return nil }
func (r *memProductRepo) UpdateCost(id string, cost decimal.Decimal) error       { return nil }
func (r *memProductRepo) Delete(id string) error                                 { return nil }

type memProjectRepo struct{ s *memStore }

func (r *memProjectRepo) Create(p *entity.Project) error { r.s.projects[p.ID] = p; return nil }
func (r *memProjectRepo) GetByID(id string) (*entity.Project, error) {
	return r.s.projects[id], nil
}
func (r *memProjectRepo) List(limit, offset int) ([]*entity.Project, error) { return r.ListAll() }
func (r *memProjectRepo) ListAll() ([]*entity.Project, error) {
	out := make([]*entity.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		out = append(out, p)
	}
	return out, nil
}
func (r *memProjectRepo) NextNumber() (int, error) {
	n := r.s.nextNumber
	r.s.nextNumber++
	return n, nil
}
func (r *memProjectRepo) Update(p *entity.Project) error { r.s.projects[p.ID] = p; return nil }
func (r *memProjectRepo) Delete(id string) error         { delete(r.s.projects, id); return nil }

type memTransactionRepo struct{ s *memStore }

func (r *memTransactionRepo) Create(t *entity.Transaction) error {
	r.s.transactions = append(r.s.transactions, t)
	return nil
}
func (r *memTransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	for _, t := range r.s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}
func (r *memTransactionRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.Transaction, error) {
	return r.s.transactions, nil
}
func (r *memTransactionRepo) ListAll() ([]*entity.Transaction, error) { return r.s.transactions, nil }
func (r *memTransactionRepo) DeleteByProject(projectID string) error {
	kept := r.s.transactions[:0]
	for _, t := range r.s.transactions {
		if t.ProjectID != projectID {
			kept = append(kept, t)
		}
	}
	r.s.transactions = kept
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }
func (r *memMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
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

func (t *memTxRunner) RunProject(ctx context.Context, fn func(
	projectRepo repository.ProjectRepository,
	transactionRepo repository.TransactionRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return fn(&memProjectRepo{t.s}, &memTransactionRepo{t.s}, &memMovementRepo{t.s})
}

// fakeStockConsumer grava os consumos pedidos sem tocar em estoque.
type fakeStockConsumer struct{ s *memStore }

func (f *fakeStockConsumer) RegisterMovement(ctx context.Context, input stock.MovementInput) error {
	f.s.consumed = append(f.s.consumed, input)
	return nil
}

// fakePDFGenerator devolve um marcador fixo para provar a delegação.
type fakePDFGenerator struct{}

func (f *fakePDFGenerator) GenerateBudgetPDF(ctx context.Context, project *entity.Project, client *entity.Client, company projects.CompanyInfo) ([]byte, error) {
	return []byte(fmt.Sprintf("pdf:%d:%s", project.Number, company.Name)), nil
}

func newUseCase(s *memStore) *projects.UseCase {
	return projects.NewUseCase(
		&memTxRunner{s},
		&memProjectRepo{s},
		&memClientRepo{s},
		&memProductRepo{s},
		&fakeStockConsumer{s},
		&fakePDFGenerator{},
		projects.CompanyInfo{Name: "Marcenaria Portela", CNPJ: "12.345.678/0001-90"},
	)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func cenarioBase() *memStore {
	s := newMemStore()
	s.clients["cli-1"] = &entity.Client{ID: "cli-1", Name: "João da Silva", Type: entity.ClientePF, Active: true}
	s.products["porta"] = &entity.Product{
		ID: "porta", Name: "Porta de armário", Type: entity.TipoProdutoPronto,
		CostPrice: dec("67.75"), SalePrice: dec("150"), CurrentStock: dec("10"),
	}
	return s
}

func vendaAprovada(items ...dto.ProjectItemRequest) dto.CreateProjectRequest {
	return dto.CreateProjectRequest{
		ClientID:  "cli-1",
		Title:     "Cozinha planejada",
		Status:    entity.StatusAprovado,
		Type:      entity.ProjetoVenda,
		Budget:    dec("5000"),
		StartDate: "2026-03-01",
		EndDate:   "2026-04-15",
		Items:     items,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create: sinal e consumo de estoque
// ──────────────────────────────────────────────────────────────────────────────

// Venda já aprovada gera a transação de sinal (50% do orçamento) e consome o
// estoque de cada item com cascata pelos componentes.
func TestCreate_VendaAprovadaGeraSinalEConsomeEstoque(t *testing.T) {
	s := cenarioBase()
	uc := newUseCase(s)

	res, err := uc.Create(context.Background(), vendaAprovada(
		dto.ProjectItemRequest{ProductID: "porta", Quantity: dec("4")},
	))

	require.NoError(t, err)
	assert.Equal(t, 1, res.Number, "primeiro número sequencial")
	assert.Equal(t, "João da Silva", res.ClientName)

	require.Len(t, s.transactions, 1)
	tx := s.transactions[0]
	assert.Equal(t, entity.TransacaoEntrada, tx.Type)
	assert.Equal(t, entity.CategoriaSinal, tx.Category)
	assert.True(t, dec("2500").Equal(tx.Amount), "50%% de 5000")
	assert.Equal(t, res.ID, tx.ProjectID)
	assert.Equal(t, "Sinal do projeto #1 - Cozinha planejada", tx.Description)

	require.Len(t, s.consumed, 1)
	consumo := s.consumed[0]
	assert.Equal(t, "porta", consumo.ProductID)
	assert.Equal(t, entity.MovimentoSaida, consumo.Type)
	assert.True(t, dec("4").Equal(consumo.Quantity))
	assert.True(t, consumo.Cascade, "consumo de item sempre cascateia")
	assert.Equal(t, res.ID, consumo.ProjectID)
}

// Projeto em estágio de orçamento não movimenta dinheiro nem estoque.
func TestCreate_StatusOrcamentoNaoGeraSinalNemConsome(t *testing.T) {
	s := cenarioBase()
	uc := newUseCase(s)

	in := vendaAprovada(dto.ProjectItemRequest{ProductID: "porta", Quantity: dec("4")})
	in.Status = entity.StatusOrcamento

	_, err := uc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Empty(t, s.transactions)
	assert.Empty(t, s.consumed)
}

// Tipo orcamento tampouco gera sinal, mesmo com status avançado.
func TestCreate_TipoOrcamentoNaoGeraSinal(t *testing.T) {
	s := cenarioBase()
	uc := newUseCase(s)

	in := vendaAprovada()
	in.Type = entity.ProjetoOrcamento

	_, err := uc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Empty(t, s.transactions)
	assert.Empty(t, s.consumed)
}

func TestCreate_ClienteInexistente(t *testing.T) {
	uc := newUseCase(cenarioBase())

	in := vendaAprovada()
	in.ClientID = "fantasma"

	_, err := uc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ItemComProdutoInexistente(t *testing.T) {
	s := cenarioBase()
	uc := newUseCase(s)

	_, err := uc.Create(context.Background(), vendaAprovada(
		dto.ProjectItemRequest{ProductID: "fantasma", Quantity: dec("1")},
	))

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.projects, "nada persistido")
}

func TestCreate_ItemComQuantidadeNaoPositiva(t *testing.T) {
	uc := newUseCase(cenarioBase())

	_, err := uc.Create(context.Background(), vendaAprovada(
		dto.ProjectItemRequest{ProductID: "porta", Quantity: decimal.Zero},
	))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Item sem preço informado usa o sale_price do produto como snapshot.
func TestCreate_ItemSemPrecoUsaSalePrice(t *testing.T) {
	uc := newUseCase(cenarioBase())

	res, err := uc.Create(context.Background(), vendaAprovada(
		dto.ProjectItemRequest{ProductID: "porta", Quantity: dec("2")},
	))

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, dec("150").Equal(res.Items[0].UnitPrice))
	assert.True(t, dec("300").Equal(res.Items[0].TotalPrice))
	assert.Equal(t, "Porta de armário", res.Items[0].ProductName)
}

func TestCreate_ItemComPrecoNegociado(t *testing.T) {
	uc := newUseCase(cenarioBase())

	res, err := uc.Create(context.Background(), vendaAprovada(
		dto.ProjectItemRequest{ProductID: "porta", Quantity: dec("2"), UnitPrice: dec("120")},
	))

	require.NoError(t, err)
	assert.True(t, dec("120").Equal(res.Items[0].UnitPrice), "preço negociado prevalece")
	assert.True(t, dec("240").Equal(res.Items[0].TotalPrice))
}

// Números sequenciais por ordem de criação.
func TestCreate_NumerosSequenciais(t *testing.T) {
	uc := newUseCase(cenarioBase())

	p1, err := uc.Create(context.Background(), vendaAprovada())
	require.NoError(t, err)
	p2, err := uc.Create(context.Background(), vendaAprovada())
	require.NoError(t, err)

	assert.Equal(t, 1, p1.Number)
	assert.Equal(t, 2, p2.Number)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update: pagamento final na conclusão
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_TransicaoParaConcluidoGeraPagamentoFinal(t *testing.T) {
	s := cenarioBase()
	uc := newUseCase(s)
	created, err := uc.Create(context.Background(), vendaAprovada())
	require.NoError(t, err)
	require.Len(t, s.transactions, 1, "sinal da criação")

	concluido := entity.StatusConcluido
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProjectRequest{Status: &concluido})

	require.NoError(t, err)
	require.Len(t, s.transactions, 2)
	final := s.transactions[1]
	assert.Equal(t, entity.TransacaoEntrada, final.Type)
	assert.Equal(t, entity.CategoriaPagamentoFinal, final.Category)
	assert.True(t, dec("2500").Equal(final.Amount), "50%% restante")
	assert.Equal(t, "Pagamento final - Projeto #1", final.Description)
}

// Regravar um projeto já concluído não duplica o pagamento final.
func TestUpdate_JaConcluidoNaoDuplicaPagamento(t *testing.T) {
	s := cenarioBase()
	uc := newUseCase(s)
	created, err := uc.Create(context.Background(), vendaAprovada())
	require.NoError(t, err)

	concluido := entity.StatusConcluido
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProjectRequest{Status: &concluido})
	require.NoError(t, err)

	titulo := "Cozinha planejada (revisão)"
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProjectRequest{Title: &titulo})
	require.NoError(t, err)

	assert.Len(t, s.transactions, 2, "sinal + um único pagamento final")
}

func TestUpdate_NaoEncontradoDevolveNil(t *testing.T) {
	uc := newUseCase(cenarioBase())

	res, err := uc.Update(context.Background(), "fantasma", dto.UpdateProjectRequest{})

	require.NoError(t, err)
	assert.Nil(t, res)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete: cascata
// ──────────────────────────────────────────────────────────────────────────────

// A exclusão remove as transações financeiras e os movimentos de estoque do
// projeto junto com o projeto — único caso em que lançamentos do razão somem.
func TestDelete_CascataRemoveTransacoesEMovimentos(t *testing.T) {
	s := cenarioBase()
	uc := newUseCase(s)
	created, err := uc.Create(context.Background(), vendaAprovada())
	require.NoError(t, err)
	s.movements = append(s.movements, &entity.StockMovement{ID: "mov-1", ProjectID: created.ID})
	s.movements = append(s.movements, &entity.StockMovement{ID: "mov-2", ProjectID: "outro"})

	err = uc.Delete(context.Background(), created.ID)

	require.NoError(t, err)
	assert.NotContains(t, s.projects, created.ID)
	assert.Empty(t, s.transactions, "sinal removido")
	require.Len(t, s.movements, 1, "movimento de outro projeto preservado")
	assert.Equal(t, "mov-2", s.movements[0].ID)
}

func TestDelete_NaoEncontrado(t *testing.T) {
	uc := newUseCase(cenarioBase())

	assert.ErrorIs(t, uc.Delete(context.Background(), "fantasma"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF do orçamento
// ──────────────────────────────────────────────────────────────────────────────

func TestBudgetPDF_DelegaAoGerador(t *testing.T) {
	s := cenarioBase()
	uc := newUseCase(s)
	created, err := uc.Create(context.Background(), vendaAprovada())
	require.NoError(t, err)

	pdf, err := uc.BudgetPDF(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, "pdf:1:Marcenaria Portela", string(pdf))
}

func TestBudgetPDF_ProjetoInexistente(t *testing.T) {
	uc := newUseCase(cenarioBase())

	_, err := uc.BudgetPDF(context.Background(), "fantasma")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
