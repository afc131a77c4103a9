// Package pdf implementa a geração do documento de orçamento entregue ao
// cliente da marcenaria.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nome da marcenaria + CNPJ  │  ORÇAMENTO N° + Data  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMITENTE: Endereço / Tel / Email                           │
//	│  CLIENTE: Nome + CPF/CNPJ + contato                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Qtd | Produto | Preço Unit. | Total                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAIS: Materiais / Mão de obra / TOTAL DO ORÇAMENTO       │
//	│  CONDIÇÕES DE PAGAMENTO (quando negociadas)                 │
//	│  FOOTER: validade e observações                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jportela/marcenaria-api/internal/application/projects"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
)

// ── Paleta de cores ───────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 92, Green: 64, Blue: 51} // marrom madeira
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ projects.BudgetPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa projects.BudgetPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator constrói o gerador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateBudgetPDF gera o PDF do orçamento e devolve os bytes.
func (g *MarotoPDFGenerator) GenerateBudgetPDF(
	_ context.Context,
	project *entity.Project,
	client *entity.Client,
	company projects.CompanyInfo,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Orçamento #%d", project.Number), true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(project, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emitenteRow(company))
	m.AddRows(clienteRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(descricaoRow(project))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(project.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(project))

	if project.PaymentTerms != nil {
		m.AddRows(paymentTermsRows(project.PaymentTerms)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ────────────────────────────────────────────────────────────────────

// headerRow: nome da marcenaria + CNPJ (esq) e número + data (dir).
func headerRow(project *entity.Project, company projects.CompanyInfo) core.Row {
	data := project.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+nonEmpty(company.CNPJ, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORÇAMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("#%d", project.Number), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+data, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emitenteRow: dados da marcenaria.
func emitenteRow(company projects.CompanyInfo) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DADOS DO EMITENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Endereço: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// clienteRow: dados do cliente.
func clienteRow(client *entity.Client) core.Row {
	doc := client.CPF
	if client.Type == entity.ClientePJ {
		doc = client.CNPJ
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CPF/CNPJ: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(doc, "—"),
				nonEmpty(client.Email, "—"),
				nonEmpty(firstNonEmpty(client.Mobile, client.Phone), "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// descricaoRow: título e descrição do projeto.
func descricaoRow(project *entity.Project) core.Row {
	height := float64(10)
	if project.Description != "" {
		height = 16
	}
	components := []core.Component{
		text.New(project.Title, props.Text{
			Style: fontstyle.Bold, Size: 11, Top: 1,
		}),
	}
	if project.Description != "" {
		components = append(components, text.New(project.Description, props.Text{
			Size: 8, Top: 8, Color: colorGray,
		}))
	}
	return row.New(height).Add(col.New(12).Add(components...))
}

// tableHeaderRow: cabeçalho da tabela de itens.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd.", 1, align.Center),
		h("Produto", 6, align.Left),
		h("Preço Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// tableItemRows: uma linha por item do projeto.
func tableItemRows(items []entity.ProjectItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				item.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				item.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+formatMoney(item.UnitPrice.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"R$ "+formatMoney(item.TotalPrice.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloco de totais alinhado à direita.
func totalsRow(project *entity.Project) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Custo de materiais:"),
			label("Mão de obra:"),
			grandLabel("TOTAL DO ORÇAMENTO:"),
		),
		col.New(5).Add(
			value("R$ "+formatMoney(project.MaterialsCost.StringFixed(2))),
			value("R$ "+formatMoney(project.LaborCost.StringFixed(2))),
			grandValue("R$ "+formatMoney(project.Budget.StringFixed(2))),
		),
	)
}

// paymentTermsRows: condições de pagamento negociadas.
func paymentTermsRows(pt *entity.PaymentTerms) []core.Row {
	parcelas := fmt.Sprintf("%dx de R$ %s", pt.Installments, formatMoney(pt.InstallmentValue.StringFixed(2)))
	detalhe := fmt.Sprintf("Forma: %s   |   Parcelas: %s", paymentMethodLabel(pt.PaymentMethod), parcelas)
	if pt.DiscountPercentage.IsPositive() {
		detalhe += fmt.Sprintf("   |   Desconto: %s%%   |   Total c/ desconto: R$ %s",
			pt.DiscountPercentage.String(), formatMoney(pt.TotalWithDiscount.StringFixed(2)))
	}
	return []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New("CONDIÇÕES DE PAGAMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
			text.New(detalhe, props.Text{Size: 8, Top: 8, Color: colorGray}),
		)),
	}
}

// footerRow: validade e observações.
func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(
			"Orçamento válido por 30 dias. Condição padrão: sinal de 50% na aprovação "+
				"e 50% na conclusão do serviço. Valores sujeitos a alteração após o prazo de validade.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func paymentMethodLabel(method string) string {
	switch method {
	case entity.PagamentoDinheiro:
		return "Dinheiro"
	case entity.PagamentoPix:
		return "PIX"
	case entity.PagamentoCartaoCredito:
		return "Cartão de crédito"
	case entity.PagamentoCartaoDebito:
		return "Cartão de débito"
	case entity.PagamentoBoleto:
		return "Boleto"
	case entity.PagamentoTransferencia:
		return "Transferência"
	}
	return method
}

// formatMoney converte "1234.56" para o formato brasileiro "1.234,56".
func formatMoney(s string) string {
	intPart, decPart, found := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 && intPart[i-1] != '-' {
			buf = append(buf, '.')
		}
		buf = append(buf, intPart[i])
	}
	if found {
		buf = append(buf, ',')
		buf = append(buf, decPart...)
	}
	return string(buf)
}
