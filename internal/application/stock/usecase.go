package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jportela/marcenaria-api/internal/application/dto"
	"github.com/jportela/marcenaria-api/internal/domain"
	"github.com/jportela/marcenaria-api/internal/domain/bom"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// UseCase é o razão de estoque: aplica movimentos (entradas/saídas) com
// propagação em cascata pelos componentes de produtos compostos, registrando
// cada movimento como lançamento imutável, e expõe a checagem de
// disponibilidade sem efeitos colaterais.
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	componentRepo repository.ComponentRepository
	movementRepo  repository.StockMovementRepository
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	componentRepo repository.ComponentRepository,
	movementRepo repository.StockMovementRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		componentRepo: componentRepo,
		movementRepo:  movementRepo,
	}
}

// MovementInput entrada para registrar um movimento.
type MovementInput struct {
	ProductID string
	Type      string // entrada, saida
	Quantity  decimal.Decimal // > 0
	ProjectID string
	Cascade   bool
	Date      time.Time // zero = hoje
	UserID    string
}

// RegisterMovement aplica um movimento de estoque:
//
//  1. lê o estoque do produto com bloqueio de linha;
//  2. novoEstoque = atual + qtd (entrada) ou max(0, atual - qtd) (saída) —
//     o estoque gravado nunca fica negativo: saída maior que o disponível
//     trava no piso zero (use CheckAvailability antes para impedir
//     sobre-consumo; o razão em si não bloqueia);
//  3. grava o estoque novo;
//  4. anexa o lançamento com snapshot de unit_price = cost_price do produto;
//  5. se cascade e saída: para cada componente, registra recursivamente
//     saída de quantidade_componente * qtd — é assim que consumir uma unidade
//     do produto pronto debita cada material vários níveis abaixo, com escala
//     multiplicativa ao longo do caminho.
//
// Os passos 1–4 são uma transação por produto; a cascata roda em transações
// separadas e sequenciais, na ordem armazenada das arestas. Falha no meio da
// cascata deixa os movimentos anteriores aplicados (limitação conhecida; não
// há transação de compensação).
func (uc *UseCase) RegisterMovement(ctx context.Context, input MovementInput) error {
	if input.Type != entity.MovimentoEntrada && input.Type != entity.MovimentoSaida {
		return domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.record(ctx, input, true)
}

func (uc *UseCase) record(ctx context.Context, input MovementInput, topLevel bool) error {
	err := uc.txRunner.RunStock(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			if topLevel {
				return domain.ErrNotFound
			}
			// Componente excluído no meio de uma travessia: benigno, segue.
			return nil
		}

		var newStock decimal.Decimal
		if input.Type == entity.MovimentoEntrada {
			newStock = product.CurrentStock.Add(input.Quantity)
		} else {
			newStock = product.CurrentStock.Sub(input.Quantity)
			if newStock.IsNegative() {
				newStock = decimal.Zero
			}
		}
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return err
		}

		date := input.Date
		if date.IsZero() {
			date = time.Now()
		}
		referenceType := entity.ReferenciaManual
		if input.ProjectID != "" {
			referenceType = entity.ReferenciaProjeto
		}
		movement := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			ProductName:   product.Name,
			Type:          input.Type,
			Quantity:      input.Quantity,
			UnitPrice:     product.CostPrice,
			TotalValue:    input.Quantity.Mul(product.CostPrice),
			ProjectID:     input.ProjectID,
			ReferenceType: referenceType,
			Date:          date,
			CreatedAt:     time.Now(),
			CreatedBy:     input.UserID,
		}
		return movementRepo.Create(movement)
	})
	if err != nil {
		return err
	}

	if !input.Cascade || input.Type != entity.MovimentoSaida {
		return nil
	}
	components, err := uc.componentRepo.ListByProduct(input.ProductID)
	if err != nil {
		return err
	}
	for _, comp := range components {
		child := MovementInput{
			ProductID: comp.ComponentID,
			Type:      entity.MovimentoSaida,
			Quantity:  comp.Quantity.Mul(input.Quantity),
			ProjectID: input.ProjectID,
			Cascade:   true,
			Date:      input.Date,
			UserID:    input.UserID,
		}
		if err := uc.record(ctx, child, false); err != nil {
			return err
		}
	}
	return nil
}

// CheckAvailability verifica, sem mutação, se há estoque para consumir
// quantity unidades do produto em todos os níveis da composição. Somente
// leitura e idempotente; seguro para chamadas concorrentes.
func (uc *UseCase) CheckAvailability(productID string, quantity decimal.Decimal) (*dto.AvailabilityResponse, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.productRepo.ListAll()
	if err != nil {
		return nil, err
	}
	edges, err := uc.componentRepo.ListAll()
	if err != nil {
		return nil, err
	}
	res := bom.Build(products, edges).CheckAvailability(productID, quantity)
	return &dto.AvailabilityResponse{
		Available:    res.Available,
		CurrentStock: res.CurrentStock,
		Required:     res.Required,
	}, nil
}

// ListMovements lista o razão com filtros e paginação.
func (uc *UseCase) ListMovements(filter repository.MovementFilter, limit, offset int) (*dto.MovementListResponse, error) {
	movements, err := uc.movementRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		TotalValue:    m.TotalValue,
		ProjectID:     m.ProjectID,
		ReferenceType: m.ReferenceType,
		Date:          m.Date,
		CreatedAt:     m.CreatedAt,
	}
}
