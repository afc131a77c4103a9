package importexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jportela/marcenaria-api/internal/application/dto"
	"github.com/jportela/marcenaria-api/internal/domain/bom"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// Cabeçalhos dos arquivos CSV. A ordem das colunas é fixa e faz parte do
// contrato com as planilhas já usadas pela marcenaria.
var (
	clientHeaders = []string{"tipo", "nome", "endereco", "tipopessoa", "fone_comercial", "fone_celular", "cep", "cidade", "email", "cpf_cnpj", "inscricao_estadual", "bairro", "complemento", "numero", "isento_icms", "razao_social", "id_empresa", "fl_ativo"}

	productHeaders = []string{"id", "nome", "descricao", "categoria", "tipo", "unidade", "custo", "preco_venda", "estoque_atual", "estoque_minimo", "componentes"}

	projectHeaders = []string{"numero", "cliente", "titulo", "descricao", "status", "tipo", "orcamento", "data_inicio", "data_fim", "custo_materiais", "custo_mao_obra", "margem_lucro"}

	transactionHeaders = []string{"tipo", "categoria", "descricao", "valor", "data", "projeto"}
)

// UseCase exportação e importação de dados em CSV e relatório de estoque em XLSX.
type UseCase struct {
	clientRepo      repository.ClientRepository
	productRepo     repository.ProductRepository
	componentRepo   repository.ComponentRepository
	projectRepo     repository.ProjectRepository
	transactionRepo repository.TransactionRepository
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	componentRepo repository.ComponentRepository,
	projectRepo repository.ProjectRepository,
	transactionRepo repository.TransactionRepository,
) *UseCase {
	return &UseCase{
		clientRepo:      clientRepo,
		productRepo:     productRepo,
		componentRepo:   componentRepo,
		projectRepo:     projectRepo,
		transactionRepo: transactionRepo,
	}
}

// ExportClientsCSV exporta todos os clientes.
func (uc *UseCase) ExportClientsCSV() ([]byte, error) {
	clients, err := uc.clientRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return writeCSV(clientHeaders, len(clients), func(i int) []string {
		c := clients[i]
		doc := c.CPF
		if c.Type == entity.ClientePJ {
			doc = c.CNPJ
		}
		return []string{
			"cliente",
			c.Name,
			c.Address.Street,
			c.Type,
			c.Phone,
			c.Mobile,
			c.Address.ZipCode,
			c.Address.City,
			c.Email,
			doc,
			c.InscricaoEstadual,
			c.Address.Neighborhood,
			c.Address.Complement,
			c.Address.Number,
			boolFlag(c.IsentoICMS),
			c.RazaoSocial,
			"",
			boolFlag(c.Active),
		}
	})
}

// ExportProductsCSV exporta o catálogo. Composições saem na coluna
// "componentes" como "nome:quantidade" separados por ponto e vírgula.
func (uc *UseCase) ExportProductsCSV() ([]byte, error) {
	products, err := uc.productRepo.ListAll()
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
	return writeCSV(productHeaders, len(products), func(i int) []string {
		p := products[i]
		parts := make([]string, 0, len(byProduct[p.ID]))
		for _, comp := range byProduct[p.ID] {
			parts = append(parts, comp.ComponentName+":"+comp.Quantity.String())
		}
		return []string{
			p.ID,
			p.Name,
			p.Description,
			p.Category,
			p.Type,
			p.Unit,
			p.CostPrice.String(),
			p.SalePrice.String(),
			p.CurrentStock.String(),
			p.MinStock.String(),
			strings.Join(parts, ";"),
		}
	})
}

// ExportProjectsCSV exporta todos os projetos.
func (uc *UseCase) ExportProjectsCSV() ([]byte, error) {
	projects, err := uc.projectRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return writeCSV(projectHeaders, len(projects), func(i int) []string {
		p := projects[i]
		return []string{
			fmt.Sprintf("%d", p.Number),
			p.ClientName,
			p.Title,
			p.Description,
			p.Status,
			p.Type,
			p.Budget.String(),
			dateOrEmpty(p.StartDate),
			dateOrEmpty(p.EndDate),
			p.MaterialsCost.String(),
			p.LaborCost.String(),
			p.ProfitMargin.String(),
		}
	})
}

// ExportTransactionsCSV exporta todos os lançamentos financeiros.
func (uc *UseCase) ExportTransactionsCSV() ([]byte, error) {
	transactions, err := uc.transactionRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return writeCSV(transactionHeaders, len(transactions), func(i int) []string {
		t := transactions[i]
		return []string{
			t.Type,
			t.Category,
			t.Description,
			t.Amount.String(),
			t.Date.Format("2006-01-02"),
			t.ProjectTitle,
		}
	})
}

// ImportClientsCSV importa clientes. Linhas inválidas são puladas e
// relatadas; as demais entram normalmente.
func (uc *UseCase) ImportClientsCSV(r io.Reader) (*dto.ImportResult, error) {
	rows, err := readCSV(r, clientHeaders, []string{"nome"})
	if err != nil {
		return nil, err
	}
	result := &dto.ImportResult{}
	for n, row := range rows {
		name := strings.TrimSpace(row["nome"])
		if name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: nome vazio", n+2))
			continue
		}
		tipoPessoa := row["tipopessoa"]
		if tipoPessoa != entity.ClientePF && tipoPessoa != entity.ClientePJ {
			tipoPessoa = entity.ClientePF
		}
		client := &entity.Client{
			ID:                uuid.New().String(),
			Name:              name,
			Type:              tipoPessoa,
			RazaoSocial:       row["razao_social"],
			InscricaoEstadual: row["inscricao_estadual"],
			IsentoICMS:        parseFlag(row["isento_icms"]),
			Email:             row["email"],
			Phone:             row["fone_comercial"],
			Mobile:            row["fone_celular"],
			Address: entity.Address{
				Street:       row["endereco"],
				Number:       row["numero"],
				Complement:   row["complemento"],
				Neighborhood: row["bairro"],
				City:         row["cidade"],
				ZipCode:      row["cep"],
			},
			Active:    parseFlag(row["fl_ativo"]),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if tipoPessoa == entity.ClientePJ {
			client.CNPJ = row["cpf_cnpj"]
		} else {
			client.CPF = row["cpf_cnpj"]
		}
		if err := uc.clientRepo.Create(client); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", n+2, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportProductsCSV importa produtos em duas passadas: primeiro os cadastros,
// depois as composições, para que um componente possa aparecer em qualquer
// linha do mesmo arquivo. Arestas que criariam ciclo são rejeitadas.
func (uc *UseCase) ImportProductsCSV(r io.Reader) (*dto.ImportResult, error) {
	rows, err := readCSV(r, productHeaders, []string{"nome"})
	if err != nil {
		return nil, err
	}

	existing, err := uc.productRepo.ListAll()
	if err != nil {
		return nil, err
	}
	edges, err := uc.componentRepo.ListAll()
	if err != nil {
		return nil, err
	}
	graph := bom.Build(existing, edges)
	byName := make(map[string]*entity.Product, len(existing))
	for _, p := range existing {
		byName[p.Name] = p
	}

	result := &dto.ImportResult{}
	type pending struct {
		product *entity.Product
		raw     string // "nome:qtd;nome:qtd"
		line    int
	}
	var composed []pending

	for n, row := range rows {
		name := strings.TrimSpace(row["nome"])
		if name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: nome vazio", n+2))
			continue
		}
		if _, ok := byName[name]; ok {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: produto %q já cadastrado", n+2, name))
			continue
		}
		tipo := row["tipo"]
		switch tipo {
		case entity.TipoMaterialBruto, entity.TipoParteProduto, entity.TipoProdutoPronto:
		default:
			tipo = entity.TipoMaterialBruto
		}
		product := &entity.Product{
			ID:           uuid.New().String(),
			Name:         name,
			Description:  row["descricao"],
			Category:     row["categoria"],
			Type:         tipo,
			Unit:         row["unidade"],
			CostPrice:    parseDecimal(row["custo"]),
			SalePrice:    parseDecimal(row["preco_venda"]),
			CurrentStock: parseDecimal(row["estoque_atual"]),
			MinStock:     parseDecimal(row["estoque_minimo"]),
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if product.Unit == "" {
			product.Unit = "UN"
		}
		if err := uc.productRepo.Create(product); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", n+2, err))
			continue
		}
		byName[name] = product
		graph.AddNode(product.ID, bom.Node{Type: product.Type, CostPrice: product.CostPrice, CurrentStock: product.CurrentStock})
		result.Imported++

		if raw := strings.TrimSpace(row["componentes"]); raw != "" && tipo != entity.TipoMaterialBruto {
			composed = append(composed, pending{product: product, raw: raw, line: n + 2})
		}
	}

	// Segunda passada: resolver composições por nome e validar ciclos no grafo.
	for _, pc := range composed {
		components, errs := uc.resolveComponents(graph, byName, pc.product, pc.raw, pc.line)
		result.Errors = append(result.Errors, errs...)
		if len(components) == 0 {
			continue
		}
		for i := range components {
			if err := uc.componentRepo.Insert(&components[i]); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", pc.line, err))
				continue
			}
			graph.AddEdge(pc.product.ID, bom.Edge{ComponentID: components[i].ComponentID, Quantity: components[i].Quantity})
		}
		cost := bom.CostFromComponents(components)
		if err := uc.productRepo.UpdateCost(pc.product.ID, cost); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", pc.line, err))
		}
	}
	return result, nil
}

func (uc *UseCase) resolveComponents(graph *bom.Graph, byName map[string]*entity.Product, product *entity.Product, raw string, line int) ([]entity.ProductComponent, []string) {
	var components []entity.ProductComponent
	var errs []string
	position := 0
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idx := strings.LastIndex(pair, ":")
		if idx <= 0 {
			errs = append(errs, fmt.Sprintf("linha %d: componente %q mal formado", line, pair))
			continue
		}
		compName := strings.TrimSpace(pair[:idx])
		qty, err := decimal.NewFromString(strings.TrimSpace(pair[idx+1:]))
		if err != nil || !qty.IsPositive() {
			errs = append(errs, fmt.Sprintf("linha %d: quantidade inválida em %q", line, pair))
			continue
		}
		comp, ok := byName[compName]
		if !ok {
			errs = append(errs, fmt.Sprintf("linha %d: componente %q não encontrado", line, compName))
			continue
		}
		if graph.WouldCycle(product.ID, comp.ID) {
			errs = append(errs, fmt.Sprintf("linha %d: componente %q criaria referência circular", line, compName))
			continue
		}
		components = append(components, entity.ProductComponent{
			ProductID:     product.ID,
			ComponentID:   comp.ID,
			ComponentName: comp.Name,
			Quantity:      qty,
			Unit:          comp.Unit,
			UnitCost:      comp.CostPrice,
			TotalCost:     qty.Mul(comp.CostPrice),
			Position:      position,
		})
		position++
	}
	return components, errs
}

// ImportProjectsCSV importa projetos. O cliente é resolvido pelo nome exato;
// linhas com cliente desconhecido são puladas e relatadas. A importação
// restaura dados: não re-dispara sinal nem consumo de estoque, e cada projeto
// recebe um número sequencial novo.
func (uc *UseCase) ImportProjectsCSV(r io.Reader) (*dto.ImportResult, error) {
	rows, err := readCSV(r, projectHeaders, []string{"titulo", "cliente"})
	if err != nil {
		return nil, err
	}
	result := &dto.ImportResult{}
	for n, row := range rows {
		title := strings.TrimSpace(row["titulo"])
		if title == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: título vazio", n+2))
			continue
		}
		clientName := strings.TrimSpace(row["cliente"])
		client, err := uc.clientRepo.GetByName(clientName)
		if err != nil {
			return nil, err
		}
		if client == nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: cliente %q não encontrado", n+2, clientName))
			continue
		}

		status := row["status"]
		switch status {
		case entity.StatusOrcamento, entity.StatusAprovado, entity.StatusEmProducao, entity.StatusConcluido, entity.StatusEntregue:
		default:
			status = entity.StatusOrcamento
		}
		tipo := row["tipo"]
		if tipo != entity.ProjetoOrcamento && tipo != entity.ProjetoVenda {
			tipo = entity.ProjetoOrcamento
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
			Title:         title,
			Description:   row["descricao"],
			Status:        status,
			Type:          tipo,
			Budget:        parseDecimal(row["orcamento"]),
			StartDate:     parseDate(row["data_inicio"], now),
			EndDate:       parseDate(row["data_fim"], now),
			MaterialsCost: parseDecimal(row["custo_materiais"]),
			LaborCost:     parseDecimal(row["custo_mao_obra"]),
			ProfitMargin:  parseDecimal(row["margem_lucro"]),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uc.projectRepo.Create(project); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", n+2, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportTransactionsCSV importa lançamentos financeiros. A coluna "projeto"
// carrega o título: quando casa com um projeto existente, o lançamento é
// vinculado; quando não, só o título fica registrado como snapshot.
func (uc *UseCase) ImportTransactionsCSV(r io.Reader) (*dto.ImportResult, error) {
	rows, err := readCSV(r, transactionHeaders, []string{"tipo", "valor"})
	if err != nil {
		return nil, err
	}
	projects, err := uc.projectRepo.ListAll()
	if err != nil {
		return nil, err
	}
	byTitle := make(map[string]*entity.Project, len(projects))
	for _, p := range projects {
		byTitle[p.Title] = p
	}

	result := &dto.ImportResult{}
	for n, row := range rows {
		tipo := row["tipo"]
		if tipo != entity.TransacaoEntrada && tipo != entity.TransacaoSaida {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: tipo %q inválido", n+2, tipo))
			continue
		}
		amount := parseDecimal(row["valor"])
		if !amount.IsPositive() {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: valor %q inválido", n+2, row["valor"]))
			continue
		}

		now := time.Now()
		transaction := &entity.Transaction{
			ID:           uuid.New().String(),
			Type:         tipo,
			Category:     row["categoria"],
			Description:  row["descricao"],
			Amount:       amount,
			Date:         parseDate(row["data"], now),
			ProjectTitle: strings.TrimSpace(row["projeto"]),
			CreatedAt:    now,
		}
		if p, ok := byTitle[transaction.ProjectTitle]; ok {
			transaction.ProjectID = p.ID
		}
		if err := uc.transactionRepo.Create(transaction); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", n+2, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// StockReportXLSX gera o relatório de estoque em planilha: uma linha por
// produto, com marcação dos itens abaixo do mínimo.
func (uc *UseCase) StockReportXLSX() ([]byte, error) {
	products, err := uc.productRepo.ListAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Estoque"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Produto", "Categoria", "Tipo", "Unidade", "Custo", "Preço Venda", "Estoque Atual", "Estoque Mínimo", "Abaixo do Mínimo"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range products {
		low := ""
		if p.CurrentStock.LessThanOrEqual(p.MinStock) {
			low = "SIM"
		}
		values := []interface{}{
			p.Name,
			p.Category,
			p.Type,
			p.Unit,
			p.CostPrice.InexactFloat64(),
			p.SalePrice.InexactFloat64(),
			p.CurrentStock.InexactFloat64(),
			p.MinStock.InexactFloat64(),
			low,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCSV(headers []string, n int, row func(i int) []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readCSV lê o arquivo inteiro e devolve cada linha como mapa coluna→valor,
// casando o cabeçalho do arquivo com o esperado (ordem livre de colunas
// extras). As colunas obrigatórias variam por entidade.
func readCSV(r io.Reader, expected, required []string) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("arquivo CSV vazio")
	}

	header := records[0]
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("coluna obrigatória %q ausente no cabeçalho", col)
		}
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(expected))
		for _, col := range expected {
			if i, ok := pos[col]; ok && i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	// Planilhas brasileiras usam vírgula decimal.
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDate(s string, fallback time.Time) time.Time {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return d
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "sim", "s":
		return true
	}
	return false
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func dateOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
