package bom_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/marcenaria-api/internal/domain/bom"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// grafoPorta monta o cenário clássico da marcenaria:
// Porta (produto_pronto) = 0,5x MDF (material_bruto, R$85,50) + 2x Dobradiça (material_bruto, R$12,50).
func grafoPorta(estoqueMDF, estoqueDobradica string) *bom.Graph {
	g := bom.New()
	g.AddNode("mdf", bom.Node{Type: entity.TipoMaterialBruto, CostPrice: dec("85.50"), CurrentStock: dec(estoqueMDF)})
	g.AddNode("dobradica", bom.Node{Type: entity.TipoMaterialBruto, CostPrice: dec("12.50"), CurrentStock: dec(estoqueDobradica)})
	g.AddNode("porta", bom.Node{Type: entity.TipoProdutoPronto, CostPrice: decimal.Zero, CurrentStock: dec("10")})
	g.AddEdge("porta", bom.Edge{ComponentID: "mdf", Quantity: dec("0.5")})
	g.AddEdge("porta", bom.Edge{ComponentID: "dobradica", Quantity: dec("2")})
	return g
}

// ──────────────────────────────────────────────────────────────────────────────
// Custo recursivo
// ──────────────────────────────────────────────────────────────────────────────

// Porta = 0,5*85,50 + 2*12,50 = 67,75.
func TestCost_ProdutoComposto(t *testing.T) {
	g := grafoPorta("50", "200")

	custo := g.Cost("porta")

	assert.True(t, dec("67.75").Equal(custo), "esperava 67.75, obteve %s", custo)
}

// Material bruto devolve o próprio cost_price, sem recursão.
func TestCost_MaterialBrutoEhAutoritativo(t *testing.T) {
	g := grafoPorta("50", "200")

	assert.True(t, dec("85.50").Equal(g.Cost("mdf")))
}

// Produto inexistente devolve 0 (benigno, não é erro).
func TestCost_ProdutoInexistenteDevolveZero(t *testing.T) {
	g := bom.New()

	assert.True(t, g.Cost("fantasma").IsZero())
}

// Composição em três níveis: Armário = 2x Porta + 1x MDF.
// Custo esperado: 2*67,75 + 85,50 = 221,00.
func TestCost_TresNiveis(t *testing.T) {
	g := grafoPorta("50", "200")
	g.AddNode("armario", bom.Node{Type: entity.TipoProdutoPronto})
	g.AddEdge("armario", bom.Edge{ComponentID: "porta", Quantity: dec("2")})
	g.AddEdge("armario", bom.Edge{ComponentID: "mdf", Quantity: dec("1")})

	assert.True(t, dec("221").Equal(g.Cost("armario")), "obteve %s", g.Cost("armario"))
}

// Diamante: dois caminhos até o mesmo material não duplicam nem omitem custo.
// Mesa = 1x TampoA + 1x TampoB; cada tampo = 1x MDF. Custo = 2*85,50.
func TestCost_DiamanteNaoDuplicaCusto(t *testing.T) {
	g := bom.New()
	g.AddNode("mdf", bom.Node{Type: entity.TipoMaterialBruto, CostPrice: dec("85.50")})
	g.AddNode("tampo_a", bom.Node{Type: entity.TipoParteProduto})
	g.AddNode("tampo_b", bom.Node{Type: entity.TipoParteProduto})
	g.AddNode("mesa", bom.Node{Type: entity.TipoProdutoPronto})
	g.AddEdge("tampo_a", bom.Edge{ComponentID: "mdf", Quantity: dec("1")})
	g.AddEdge("tampo_b", bom.Edge{ComponentID: "mdf", Quantity: dec("1")})
	g.AddEdge("mesa", bom.Edge{ComponentID: "tampo_a", Quantity: dec("1")})
	g.AddEdge("mesa", bom.Edge{ComponentID: "tampo_b", Quantity: dec("1")})

	assert.True(t, dec("171").Equal(g.Cost("mesa")), "obteve %s", g.Cost("mesa"))
}

// cost_price de composto no cadastro = soma dos snapshots dos componentes,
// mesmo que o custo vivo do componente tenha mudado depois.
func TestCostFromComponents_UsaSnapshot(t *testing.T) {
	comps := []entity.ProductComponent{
		{ComponentID: "mdf", Quantity: dec("0.5"), UnitCost: dec("85.50")},
		{ComponentID: "dobradica", Quantity: dec("2"), UnitCost: dec("12.50")},
	}

	assert.True(t, dec("67.75").Equal(bom.CostFromComponents(comps)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Detecção de ciclos
// ──────────────────────────────────────────────────────────────────────────────

// Porta já depende de MDF; MDF depender da Porta fecharia o ciclo.
func TestWouldCycle_CicloIndireto(t *testing.T) {
	g := grafoPorta("50", "200")

	assert.True(t, g.WouldCycle("mdf", "porta"))
}

// Auto-referência direta é sempre ciclo.
func TestWouldCycle_AutoReferencia(t *testing.T) {
	g := bom.New()
	g.AddNode("mdf", bom.Node{Type: entity.TipoMaterialBruto})

	assert.True(t, g.WouldCycle("mdf", "mdf"))
}

// Ciclo transitivo em três níveis: A -> B -> C; adicionar C -> A deve ser rejeitado.
func TestWouldCycle_Transitivo(t *testing.T) {
	g := bom.New()
	g.AddEdge("a", bom.Edge{ComponentID: "b", Quantity: dec("1")})
	g.AddEdge("b", bom.Edge{ComponentID: "c", Quantity: dec("1")})

	assert.True(t, g.WouldCycle("c", "a"))
	assert.False(t, g.WouldCycle("a", "c"))
}

// Diamante acíclico não pode ser confundido com ciclo.
func TestWouldCycle_DiamanteEhAciclico(t *testing.T) {
	g := bom.New()
	g.AddEdge("mesa", bom.Edge{ComponentID: "tampo_a", Quantity: dec("1")})
	g.AddEdge("mesa", bom.Edge{ComponentID: "tampo_b", Quantity: dec("1")})
	g.AddEdge("tampo_a", bom.Edge{ComponentID: "mdf", Quantity: dec("1")})
	g.AddEdge("tampo_b", bom.Edge{ComponentID: "mdf", Quantity: dec("1")})

	assert.False(t, g.WouldCycle("mesa", "mdf"))
}

// RemoveEdges permite validar a substituição integral da lista de componentes:
// sem as arestas antigas do produto, a lista nova não deve reintroduzir ciclo.
func TestWouldCycle_AposRemoveEdges(t *testing.T) {
	g := bom.New()
	g.AddEdge("porta", bom.Edge{ComponentID: "mdf", Quantity: dec("0.5")})

	require.True(t, g.WouldCycle("mdf", "porta"))
	g.RemoveEdges("porta")
	assert.False(t, g.WouldCycle("mdf", "porta"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidade
// ──────────────────────────────────────────────────────────────────────────────

// Estoque suficiente em todos os níveis: devolve o estoque do próprio composto.
func TestCheckAvailability_Disponivel(t *testing.T) {
	g := grafoPorta("50", "200")

	res := g.CheckAvailability("porta", dec("10"))

	assert.True(t, res.Available)
	assert.True(t, dec("10").Equal(res.CurrentStock), "estoque informativo do composto")
	assert.True(t, dec("10").Equal(res.Required))
}

// Curto-circuito: com 1000 portas, o MDF (primeiro componente) precisa de 500 e
// falha; a Dobradiça nem é avaliada e o resultado carrega os dados do MDF.
func TestCheckAvailability_CurtoCircuitoNoPrimeiroDeficit(t *testing.T) {
	g := grafoPorta("50", "200")

	res := g.CheckAvailability("porta", dec("1000"))

	require.False(t, res.Available)
	assert.True(t, dec("50").Equal(res.CurrentStock), "deve reportar o estoque do MDF")
	assert.True(t, dec("500").Equal(res.Required), "0,5 * 1000")
}

// Material bruto compara o estoque diretamente.
func TestCheckAvailability_MaterialBruto(t *testing.T) {
	g := grafoPorta("50", "200")

	res := g.CheckAvailability("mdf", dec("60"))

	assert.False(t, res.Available)
	assert.True(t, dec("50").Equal(res.CurrentStock))
	assert.True(t, dec("60").Equal(res.Required))
}

// Requisito escala multiplicativamente ao longo do caminho:
// Armário = 2x Porta, Porta = 2x Dobradiça => 10 armários pedem 40 dobradiças.
func TestCheckAvailability_EscalaMultiplicativa(t *testing.T) {
	g := grafoPorta("50", "30")
	g.AddNode("armario", bom.Node{Type: entity.TipoProdutoPronto, CurrentStock: decimal.Zero})
	g.AddEdge("armario", bom.Edge{ComponentID: "porta", Quantity: dec("2")})

	res := g.CheckAvailability("armario", dec("10"))

	require.False(t, res.Available)
	assert.True(t, dec("30").Equal(res.CurrentStock))
	assert.True(t, dec("40").Equal(res.Required), "2 * 2 * 10 dobradiças")
}

// Produto inexistente: indisponível com estoque zero.
func TestCheckAvailability_ProdutoInexistente(t *testing.T) {
	g := bom.New()

	res := g.CheckAvailability("fantasma", dec("3"))

	assert.False(t, res.Available)
	assert.True(t, res.CurrentStock.IsZero())
	assert.True(t, dec("3").Equal(res.Required))
}
