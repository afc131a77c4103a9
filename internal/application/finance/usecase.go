package finance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jportela/marcenaria-api/internal/application/dto"
	"github.com/jportela/marcenaria-api/internal/domain"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// UseCase lançamentos financeiros avulsos e painel de indicadores.
// As transações geradas por projetos (sinal, pagamento final) nascem na
// orquestração de projetos; aqui entram apenas lançamentos manuais.
type UseCase struct {
	transactionRepo repository.TransactionRepository
	projectRepo     repository.ProjectRepository
	dashboardRepo   repository.DashboardRepository
}

// NewUseCase constrói o caso de uso.
func NewUseCase(transactionRepo repository.TransactionRepository, projectRepo repository.ProjectRepository, dashboardRepo repository.DashboardRepository) *UseCase {
	return &UseCase{
		transactionRepo: transactionRepo,
		projectRepo:     projectRepo,
		dashboardRepo:   dashboardRepo,
	}
}

// Create lança uma transação manual. Quando vinculada a um projeto, o título
// do projeto é congelado como snapshot no lançamento.
func (uc *UseCase) Create(in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if in.Type != entity.TransacaoEntrada && in.Type != entity.TransacaoSaida {
		return nil, domain.ErrInvalidInput
	}
	if in.Amount.IsNegative() || in.Amount.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	var projectTitle string
	if in.ProjectID != "" {
		project, err := uc.projectRepo.GetByID(in.ProjectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, domain.ErrNotFound
		}
		projectTitle = project.Title
	}

	date := time.Now()
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}

	transaction := &entity.Transaction{
		ID:           uuid.New().String(),
		ProjectID:    in.ProjectID,
		ProjectTitle: projectTitle,
		Type:         in.Type,
		Category:     in.Category,
		Description:  in.Description,
		Amount:       in.Amount,
		Date:         date,
		CreatedAt:    time.Now(),
	}
	if err := uc.transactionRepo.Create(transaction); err != nil {
		return nil, err
	}
	return toTransactionResponse(transaction), nil
}

// GetByID devolve uma transação.
func (uc *UseCase) GetByID(id string) (*dto.TransactionResponse, error) {
	transaction, err := uc.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, nil
	}
	return toTransactionResponse(transaction), nil
}

// List lista transações com filtros opcionais.
func (uc *UseCase) List(filter repository.TransactionFilter, limit, offset int) (*dto.TransactionListResponse, error) {
	list, err := uc.transactionRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransactionResponse(t))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Dashboard monta os indicadores do painel: agregações em SQL mais um feed com
// os últimos projetos e transações intercalados por data.
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	stats, err := uc.dashboardRepo.Stats(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	projects, err := uc.projectRepo.List(3, 0)
	if err != nil {
		return nil, err
	}
	transactions, err := uc.transactionRepo.List(repository.TransactionFilter{}, 3, 0)
	if err != nil {
		return nil, err
	}

	activity := make([]dto.ActivityEntry, 0, len(projects)+len(transactions))
	for _, p := range projects {
		activity = append(activity, dto.ActivityEntry{
			Type:    "project",
			Message: fmt.Sprintf("Projeto #%d - %s (%s)", p.Number, p.Title, p.Status),
			Date:    p.CreatedAt,
		})
	}
	for _, t := range transactions {
		verb := "Recebimento"
		if t.Type == entity.TransacaoSaida {
			verb = "Pagamento"
		}
		activity = append(activity, dto.ActivityEntry{
			Type:    "transaction",
			Message: fmt.Sprintf("%s: %s (R$ %s)", verb, t.Description, t.Amount.StringFixed(2)),
			Date:    t.CreatedAt,
		})
	}
	sort.Slice(activity, func(i, j int) bool { return activity[i].Date.After(activity[j].Date) })
	if len(activity) > 5 {
		activity = activity[:5]
	}

	return &dto.DashboardResponse{
		TotalClients:    stats.TotalClients,
		ActiveProjects:  stats.ActiveProjects,
		MonthlyRevenue:  stats.MonthlyRevenue,
		PendingPayments: stats.PendingPayments,
		LowStockItems:   stats.LowStockItems,
		RecentActivity:  activity,
	}, nil
}

func toTransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		ProjectTitle: t.ProjectTitle,
		Type:         t.Type,
		Category:     t.Category,
		Description:  t.Description,
		Amount:       t.Amount,
		Date:         t.Date,
		CreatedAt:    t.CreatedAt,
	}
}
