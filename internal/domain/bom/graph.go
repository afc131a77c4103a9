// Package bom implementa o motor de composição de produtos (bill of materials):
// grafo dirigido produto -> componentes, com verificação de ciclos, custo
// recursivo e checagem de disponibilidade. As funções operam sobre um snapshot
// carregado uma vez por operação lógica, sem acesso ao banco, o que as mantém
// testáveis de forma isolada.
package bom

import (
	"github.com/shopspring/decimal"

	"github.com/jportela/marcenaria-api/internal/domain/entity"
)

// Node dados do produto relevantes para o motor.
type Node struct {
	Type         string
	CostPrice    decimal.Decimal
	CurrentStock decimal.Decimal
}

// Edge aresta de composição: o produto usa Quantity unidades do componente.
type Edge struct {
	ComponentID string
	Quantity    decimal.Decimal
}

// Graph snapshot do grafo de composição (lista de adjacência por id de produto).
// Invariante estrutural: acíclico — toda mutação passa por WouldCycle antes de persistir.
type Graph struct {
	nodes map[string]Node
	edges map[string][]Edge
}

// New cria um grafo vazio.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		edges: make(map[string][]Edge),
	}
}

// Build monta o snapshot a partir de produtos e arestas persistidas.
// As arestas preservam a ordem de Position (ordem de travessia da disponibilidade).
func Build(products []*entity.Product, components []entity.ProductComponent) *Graph {
	g := New()
	for _, p := range products {
		g.AddNode(p.ID, Node{Type: p.Type, CostPrice: p.CostPrice, CurrentStock: p.CurrentStock})
	}
	for _, c := range components {
		g.AddEdge(c.ProductID, Edge{ComponentID: c.ComponentID, Quantity: c.Quantity})
	}
	return g
}

// AddNode registra (ou substitui) um produto no snapshot.
func (g *Graph) AddNode(id string, n Node) {
	g.nodes[id] = n
}

// AddEdge acrescenta uma aresta de composição ao snapshot. Não valida ciclo;
// a validação é responsabilidade de quem monta a mutação (WouldCycle).
func (g *Graph) AddEdge(productID string, e Edge) {
	g.edges[productID] = append(g.edges[productID], e)
}

// RemoveEdges descarta as arestas de um produto (usado na substituição
// integral da lista de componentes, antes de validar a lista nova).
func (g *Graph) RemoveEdges(productID string) {
	delete(g.edges, productID)
}

// Edges devolve as arestas do produto na ordem armazenada.
func (g *Graph) Edges(productID string) []Edge {
	return g.edges[productID]
}

// WouldCycle informa se adicionar a aresta productID -> componentID criaria um
// ciclo, isto é, se productID é alcançável a partir de componentID pelas
// arestas existentes (ou se os dois ids coincidem). DFS com conjunto de
// visitados para não repercorrer diamantes.
func (g *Graph) WouldCycle(productID, componentID string) bool {
	if productID == componentID {
		return true
	}
	visited := make(map[string]bool)
	return g.reaches(componentID, productID, visited)
}

func (g *Graph) reaches(from, target string, visited map[string]bool) bool {
	if visited[from] {
		return false
	}
	visited[from] = true
	for _, e := range g.edges[from] {
		if e.ComponentID == target {
			return true
		}
		if g.reaches(e.ComponentID, target, visited) {
			return true
		}
	}
	return false
}

// Cost calcula o custo recursivo de um produto. Caso base: material_bruto
// devolve o próprio cost_price (custo autoritativo da folha). Caso recursivo:
// soma de Cost(componente) * quantidade. Produto inexistente devolve 0 —
// tratado como benigno (pode ter sido excluído no meio de uma importação).
// O memo por chamada evita recomputar subárvores compartilhadas (diamantes);
// é só otimização, o grafo acíclico garante terminação sem ele.
func (g *Graph) Cost(productID string) decimal.Decimal {
	memo := make(map[string]decimal.Decimal)
	return g.cost(productID, memo)
}

func (g *Graph) cost(productID string, memo map[string]decimal.Decimal) decimal.Decimal {
	if v, ok := memo[productID]; ok {
		return v
	}
	node, ok := g.nodes[productID]
	if !ok {
		return decimal.Zero
	}
	if node.Type == entity.TipoMaterialBruto {
		memo[productID] = node.CostPrice
		return node.CostPrice
	}
	total := decimal.Zero
	for _, e := range g.edges[productID] {
		total = total.Add(g.cost(e.ComponentID, memo).Mul(e.Quantity))
	}
	memo[productID] = total
	return total
}

// Availability resultado da checagem de disponibilidade.
type Availability struct {
	Available    bool
	CurrentStock decimal.Decimal
	Required     decimal.Decimal
}

// CheckAvailability verifica, sem efeitos colaterais, se há estoque suficiente
// em todos os níveis da composição para consumir required unidades do produto.
// Material bruto: compara o estoque diretamente. Produto composto: percorre os
// componentes na ordem armazenada, escalando required pela quantidade declarada,
// e devolve o PRIMEIRO resultado insuficiente (curto-circuito, não agregado).
// Se todos os componentes têm estoque, devolve o estoque do próprio composto
// apenas como informação — compostos não são debitados diretamente.
func (g *Graph) CheckAvailability(productID string, required decimal.Decimal) Availability {
	node, ok := g.nodes[productID]
	if !ok {
		return Availability{Available: false, CurrentStock: decimal.Zero, Required: required}
	}
	if node.Type == entity.TipoMaterialBruto {
		return Availability{
			Available:    node.CurrentStock.GreaterThanOrEqual(required),
			CurrentStock: node.CurrentStock,
			Required:     required,
		}
	}
	for _, e := range g.edges[productID] {
		res := g.CheckAvailability(e.ComponentID, e.Quantity.Mul(required))
		if !res.Available {
			return res
		}
	}
	return Availability{Available: true, CurrentStock: node.CurrentStock, Required: required}
}

// CostFromComponents soma os snapshots de custo de uma lista de componentes
// (unit_cost congelado no momento da associação, não referência viva).
// É o custo gravado em produtos compostos na criação/atualização.
func CostFromComponents(components []entity.ProductComponent) decimal.Decimal {
	total := decimal.Zero
	for _, c := range components {
		total = total.Add(c.UnitCost.Mul(c.Quantity))
	}
	return total
}
