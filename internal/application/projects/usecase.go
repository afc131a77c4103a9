package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jportela/marcenaria-api/internal/application/dto"
	"github.com/jportela/marcenaria-api/internal/application/stock"
	"github.com/jportela/marcenaria-api/internal/domain"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// metade do orçamento: sinal na aprovação, restante na conclusão.
var half = decimal.NewFromFloat(0.5)

// UseCase orquestra projetos: criação com transação de sinal e consumo de
// estoque dos itens, pagamento final na conclusão e exclusão em cascata.
type UseCase struct {
	txRunner        TxRunner
	projectRepo     repository.ProjectRepository
	clientRepo      repository.ClientRepository
	productRepo     repository.ProductRepository
	stockConsumer   StockConsumer
	pdfGenerator    BudgetPDFGenerator
	company         CompanyInfo
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	txRunner TxRunner,
	projectRepo repository.ProjectRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	stockConsumer StockConsumer,
	pdfGenerator BudgetPDFGenerator,
	company CompanyInfo,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		projectRepo:   projectRepo,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		stockConsumer: stockConsumer,
		pdfGenerator:  pdfGenerator,
		company:       company,
	}
}

// resolveItems valida os produtos das linhas e materializa os snapshots
// (nome e preço unitário; preço padrão = sale_price do produto).
func (uc *UseCase) resolveItems(projectID string, in []dto.ProjectItemRequest) ([]entity.ProjectItem, error) {
	items := make([]entity.ProjectItem, 0, len(in))
	for i, req := range in {
		if !req.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(req.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		unitPrice := req.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.SalePrice
		}
		items = append(items, entity.ProjectItem{
			ID:          uuid.New().String(),
			ProjectID:   projectID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  req.Quantity.Mul(unitPrice),
			Position:    i,
		})
	}
	return items, nil
}

// Create cria um projeto com número sequencial. Venda fora de orçamento gera
// a transação de sinal (50% do orçamento) na mesma transação do projeto e, em
// seguida, consome o estoque de cada item com cascata pelos componentes. Os
// movimentos de estoque rodam fora da transação do projeto, um por produto;
// uma falha no meio deixa os anteriores aplicados (limitação conhecida).
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	number, err := uc.projectRepo.NextNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	project := &entity.Project{
		ID:            uuid.New().String(),
		Number:        number,
		ClientID:      client.ID,
		ClientName:    client.Name,
		Title:         in.Title,
		Description:   in.Description,
		Status:        in.Status,
		Type:          in.Type,
		Budget:        in.Budget,
		StartDate:     parseDate(in.StartDate, now),
		EndDate:       parseDate(in.EndDate, now),
		MaterialsCost: in.MaterialsCost,
		LaborCost:     in.LaborCost,
		ProfitMargin:  in.ProfitMargin,
		PaymentTerms:  fromPaymentTermsDTO(in.PaymentTerms),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	project.Items, err = uc.resolveItems(project.ID, in.Items)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunProject(ctx, func(
		projectRepo repository.ProjectRepository,
		transactionRepo repository.TransactionRepository,
		_ repository.StockMovementRepository,
	) error {
		if err := projectRepo.Create(project); err != nil {
			return err
		}
		// Sinal só em venda já aprovada (fora do estágio de orçamento).
		if project.Type == entity.ProjetoVenda && project.Status != entity.StatusOrcamento {
			return transactionRepo.Create(&entity.Transaction{
				ID:           uuid.New().String(),
				ProjectID:    project.ID,
				ProjectTitle: project.Title,
				Type:         entity.TransacaoEntrada,
				Category:     entity.CategoriaSinal,
				Description:  fmt.Sprintf("Sinal do projeto #%d - %s", project.Number, project.Title),
				Amount:       project.Budget.Mul(half),
				Date:         now,
				CreatedAt:    now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Consumo de estoque dos itens, com cascata pelos componentes.
	if project.Type == entity.ProjetoVenda && project.Status != entity.StatusOrcamento {
		for _, item := range project.Items {
			err := uc.stockConsumer.RegisterMovement(ctx, stock.MovementInput{
				ProductID: item.ProductID,
				Type:      entity.MovimentoSaida,
				Quantity:  item.Quantity,
				ProjectID: project.ID,
				Cascade:   true,
			})
			if err != nil {
				return nil, fmt.Errorf("consumir estoque do item %s: %w", item.ProductID, err)
			}
		}
	}

	return toProjectResponse(project), nil
}

// Update atualização parcial. A transição de status para concluido gera a
// transação de pagamento final (50% restante) junto com a gravação do projeto.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := uc.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	wasConcluded := project.Status == entity.StatusConcluido

	if in.Title != nil {
		project.Title = *in.Title
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.Status != nil {
		project.Status = *in.Status
	}
	if in.Budget != nil {
		project.Budget = *in.Budget
	}
	if in.StartDate != nil {
		project.StartDate = parseDate(*in.StartDate, project.StartDate)
	}
	if in.EndDate != nil {
		project.EndDate = parseDate(*in.EndDate, project.EndDate)
	}
	if in.MaterialsCost != nil {
		project.MaterialsCost = *in.MaterialsCost
	}
	if in.LaborCost != nil {
		project.LaborCost = *in.LaborCost
	}
	if in.ProfitMargin != nil {
		project.ProfitMargin = *in.ProfitMargin
	}
	if in.PaymentTerms != nil {
		project.PaymentTerms = fromPaymentTermsDTO(in.PaymentTerms)
	}
	if in.Items != nil {
		project.Items, err = uc.resolveItems(project.ID, *in.Items)
		if err != nil {
			return nil, err
		}
	}
	project.UpdatedAt = time.Now()

	concludedNow := !wasConcluded && project.Status == entity.StatusConcluido

	err = uc.txRunner.RunProject(ctx, func(
		projectRepo repository.ProjectRepository,
		transactionRepo repository.TransactionRepository,
		_ repository.StockMovementRepository,
	) error {
		if err := projectRepo.Update(project); err != nil {
			return err
		}
		if concludedNow {
			now := time.Now()
			return transactionRepo.Create(&entity.Transaction{
				ID:           uuid.New().String(),
				ProjectID:    project.ID,
				ProjectTitle: project.Title,
				Type:         entity.TransacaoEntrada,
				Category:     entity.CategoriaPagamentoFinal,
				Description:  fmt.Sprintf("Pagamento final - Projeto #%d", project.Number),
				Amount:       project.Budget.Mul(half),
				Date:         now,
				CreatedAt:    now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// Delete exclusão em cascata numa única transação: transações financeiras do
// projeto, movimentos de estoque derivados dele (único caso em que lançamentos
// do razão são removidos), itens e o próprio projeto.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	project, err := uc.projectRepo.GetByID(id)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.RunProject(ctx, func(
		projectRepo repository.ProjectRepository,
		transactionRepo repository.TransactionRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		if err := transactionRepo.DeleteByProject(id); err != nil {
			return err
		}
		if err := movementRepo.DeleteByProject(id); err != nil {
			return err
		}
		return projectRepo.Delete(id)
	})
}

// GetByID devolve o projeto com itens.
func (uc *UseCase) GetByID(id string) (*dto.ProjectResponse, error) {
	project, err := uc.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	return toProjectResponse(project), nil
}

// List lista projetos com paginação.
func (uc *UseCase) List(limit, offset int) (*dto.ProjectListResponse, error) {
	list, err := uc.projectRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProjectResponse(p))
	}
	return &dto.ProjectListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// BudgetPDF gera o documento de orçamento do projeto.
func (uc *UseCase) BudgetPDF(ctx context.Context, id string) ([]byte, error) {
	project, err := uc.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(project.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdfGenerator.GenerateBudgetPDF(ctx, project, client, uc.company)
}

func parseDate(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fallback
	}
	return d
}

func fromPaymentTermsDTO(in *dto.PaymentTermsDTO) *entity.PaymentTerms {
	if in == nil {
		return nil
	}
	return &entity.PaymentTerms{
		Installments:       in.Installments,
		PaymentMethod:      in.PaymentMethod,
		DiscountPercentage: in.DiscountPercentage,
		InstallmentValue:   in.InstallmentValue,
		TotalWithDiscount:  in.TotalWithDiscount,
	}
}

func toPaymentTermsDTO(in *entity.PaymentTerms) *dto.PaymentTermsDTO {
	if in == nil {
		return nil
	}
	return &dto.PaymentTermsDTO{
		Installments:       in.Installments,
		PaymentMethod:      in.PaymentMethod,
		DiscountPercentage: in.DiscountPercentage,
		InstallmentValue:   in.InstallmentValue,
		TotalWithDiscount:  in.TotalWithDiscount,
	}
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	items := make([]dto.ProjectItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.ProjectItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return &dto.ProjectResponse{
		ID:            p.ID,
		Number:        p.Number,
		ClientID:      p.ClientID,
		ClientName:    p.ClientName,
		Title:         p.Title,
		Description:   p.Description,
		Status:        p.Status,
		Type:          p.Type,
		Items:         items,
		Budget:        p.Budget,
		StartDate:     p.StartDate.Format("2006-01-02"),
		EndDate:       p.EndDate.Format("2006-01-02"),
		MaterialsCost: p.MaterialsCost,
		LaborCost:     p.LaborCost,
		ProfitMargin:  p.ProfitMargin,
		PaymentTerms:  toPaymentTermsDTO(p.PaymentTerms),
		CreatedAt:     p.CreatedAt,
	}
}
