package catalog

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

// ProductUseCase casos de uso do catálogo: CRUD de produtos com validação de
// ciclos na composição, custo derivado dos componentes e guarda de integridade
// referencial na exclusão. CurrentStock só muda via movimentos de estoque.
type ProductUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	componentRepo repository.ComponentRepository
}

// NewProductUseCase constrói o caso de uso.
func NewProductUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	componentRepo repository.ComponentRepository,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		componentRepo: componentRepo,
	}
}

// loadGraph monta o snapshot do grafo de composição (uma leitura por operação
// lógica) e um índice de produtos por id para os snapshots de custo.
func (uc *ProductUseCase) loadGraph() (*bom.Graph, map[string]*entity.Product, error) {
	products, err := uc.productRepo.ListAll()
	if err != nil {
		return nil, nil, err
	}
	edges, err := uc.componentRepo.ListAll()
	if err != nil {
		return nil, nil, err
	}
	index := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return bom.Build(products, edges), index, nil
}

// buildComponents valida as arestas novas contra o snapshot e materializa os
// snapshots de custo (unit_cost congelado no cost_price atual do componente).
// Toda aresta passa pela checagem de ciclo ANTES de qualquer escrita; a falha
// é sempre síncrona e nunca deixa mutação parcial visível.
func buildComponents(
	g *bom.Graph,
	index map[string]*entity.Product,
	productID string,
	in []dto.ComponentRequest,
) ([]entity.ProductComponent, error) {
	components := make([]entity.ProductComponent, 0, len(in))
	for i, req := range in {
		if !req.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		comp, ok := index[req.ComponentID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if g.WouldCycle(productID, req.ComponentID) {
			return nil, domain.ErrCircularReference
		}
		// A aresta validada entra no snapshot: a próxima da lista também não
		// pode fechar ciclo por caminho que passe por ela.
		g.AddEdge(productID, bom.Edge{ComponentID: req.ComponentID, Quantity: req.Quantity})
		components = append(components, entity.ProductComponent{
			ProductID:     productID,
			ComponentID:   req.ComponentID,
			ComponentName: comp.Name,
			Quantity:      req.Quantity,
			Unit:          comp.Unit,
			UnitCost:      comp.CostPrice,
			TotalCost:     req.Quantity.Mul(comp.CostPrice),
			Position:      i,
		})
	}
	return components, nil
}

// Create cria um produto. material_bruto não aceita componentes; compostos têm
// o cost_price calculado a partir dos snapshots. A inserção do produto e das
// arestas acontece numa única transação: se qualquer aresta falhar a validação,
// nada é persistido.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Type == entity.TipoMaterialBruto && len(in.Components) > 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() || in.CurrentStock.IsNegative() || in.MinStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	g, index, err := uc.loadGraph()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Type:         in.Type,
		Unit:         defaultUnit(in.Unit),
		CostPrice:    in.CostPrice,
		SalePrice:    in.SalePrice,
		CurrentStock: in.CurrentStock,
		MinStock:     in.MinStock,
		Supplier:     in.Supplier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	components, err := buildComponents(g, index, product.ID, in.Components)
	if err != nil {
		return nil, err
	}
	if product.IsComposed() && len(components) > 0 {
		product.CostPrice = bom.CostFromComponents(components)
	}

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		componentRepo repository.ComponentRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		for i := range components {
			if err := componentRepo.Insert(&components[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, components), nil
}

// Update atualização parcial. Components, quando presente, substitui a lista
// por inteiro: as arestas novas são revalidadas contra o snapshot SEM as
// arestas antigas do produto, e a troca (delete + inserts + custo novo) roda
// numa única transação — atômica do ponto de vista do chamador.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Supplier != nil {
		product.Supplier = *in.Supplier
	}
	product.UpdatedAt = time.Now()

	var components []entity.ProductComponent
	replaceComponents := in.Components != nil
	if replaceComponents {
		if product.Type == entity.TipoMaterialBruto && len(*in.Components) > 0 {
			return nil, domain.ErrInvalidInput
		}
		g, index, err := uc.loadGraph()
		if err != nil {
			return nil, err
		}
		g.RemoveEdges(id)
		components, err = buildComponents(g, index, id, *in.Components)
		if err != nil {
			return nil, err
		}
		if product.IsComposed() {
			product.CostPrice = bom.CostFromComponents(components)
		}
	} else {
		components, err = uc.componentRepo.ListByProduct(id)
		if err != nil {
			return nil, err
		}
	}

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		componentRepo repository.ComponentRepository,
	) error {
		if replaceComponents {
			if err := componentRepo.DeleteByProduct(id); err != nil {
				return err
			}
			for i := range components {
				if err := componentRepo.Insert(&components[i]); err != nil {
					return err
				}
			}
		}
		return productRepo.Update(product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, components), nil
}

// Delete exclui um produto. Recusado por inteiro se outro produto ainda o
// referencia como componente.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	refs, err := uc.componentRepo.CountReferencing(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrProductReferenced
	}
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		componentRepo repository.ComponentRepository,
	) error {
		if err := componentRepo.DeleteByProduct(id); err != nil {
			return err
		}
		return productRepo.Delete(id)
	})
}

// GetByID devolve o produto com os componentes.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	components, err := uc.componentRepo.ListByProduct(id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, components), nil
}

// List lista produtos com paginação, com componentes agrupados numa leitura só.
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	products, err := uc.productRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	edges, err := uc.componentRepo.ListAll()
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string][]entity.ProductComponent)
	for _, e := range edges {
		byProduct[e.ProductID] = append(byProduct[e.ProductID], e)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(p, byProduct[p.ID]))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// AvailableComponents devolve os produtos que podem entrar em composições
// (materiais brutos e partes de produto).
func (uc *ProductUseCase) AvailableComponents() ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0)
	for _, p := range products {
		if p.Type == entity.TipoMaterialBruto || p.Type == entity.TipoParteProduto {
			out = append(out, *toProductResponse(p, nil))
		}
	}
	return out, nil
}

// ComputeCost calcula o custo recursivo do produto sobre o snapshot do grafo.
// Produto inexistente devolve custo 0 (benigno, não erro).
func (uc *ProductUseCase) ComputeCost(id string) (*dto.CostResponse, error) {
	g, _, err := uc.loadGraph()
	if err != nil {
		return nil, err
	}
	return &dto.CostResponse{ProductID: id, Cost: g.Cost(id)}, nil
}

// RecalculateCost recalcula o custo recursivo e grava no produto.
func (uc *ProductUseCase) RecalculateCost(ctx context.Context, id string) (*dto.CostResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	g, _, err := uc.loadGraph()
	if err != nil {
		return nil, err
	}
	cost := g.Cost(id)
	if err := uc.productRepo.UpdateCost(id, cost); err != nil {
		return nil, err
	}
	return &dto.CostResponse{ProductID: id, Cost: cost}, nil
}

func defaultUnit(u string) string {
	if u == "" {
		return "UN"
	}
	return u
}

func toProductResponse(p *entity.Product, components []entity.ProductComponent) *dto.ProductResponse {
	comps := make([]dto.ComponentResponse, 0, len(components))
	for _, c := range components {
		comps = append(comps, dto.ComponentResponse{
			ComponentID:   c.ComponentID,
			ComponentName: c.ComponentName,
			Quantity:      c.Quantity,
			Unit:          c.Unit,
			UnitCost:      c.UnitCost,
			TotalCost:     c.TotalCost,
		})
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Type:         p.Type,
		Unit:         p.Unit,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		Supplier:     p.Supplier,
		Components:   comps,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
