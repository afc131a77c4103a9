package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jportela/marcenaria-api/internal/application/dto"
	"github.com/jportela/marcenaria-api/internal/application/importexport"
)

// ImportExportHandler trata exportação e importação de dados (protegido).
type ImportExportHandler struct {
	uc *importexport.UseCase
}

// NewImportExportHandler constrói o handler.
func NewImportExportHandler(uc *importexport.UseCase) *ImportExportHandler {
	return &ImportExportHandler{uc: uc}
}

// ExportClients godoc
// @Summary      Exportar clientes em CSV
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/export/clients [get]
func (h *ImportExportHandler) ExportClients(c *fiber.Ctx) error {
	data, err := h.uc.ExportClientsCSV()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendCSV(c, "clientes.csv", data)
}

// ExportProducts godoc
// @Summary      Exportar produtos em CSV
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/export/products [get]
func (h *ImportExportHandler) ExportProducts(c *fiber.Ctx) error {
	data, err := h.uc.ExportProductsCSV()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendCSV(c, "produtos.csv", data)
}

// ExportProjects godoc
// @Summary      Exportar projetos em CSV
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/export/projects [get]
func (h *ImportExportHandler) ExportProjects(c *fiber.Ctx) error {
	data, err := h.uc.ExportProjectsCSV()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendCSV(c, "projetos.csv", data)
}

// ExportTransactions godoc
// @Summary      Exportar transações em CSV
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/export/transactions [get]
func (h *ImportExportHandler) ExportTransactions(c *fiber.Ctx) error {
	data, err := h.uc.ExportTransactionsCSV()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendCSV(c, "transacoes.csv", data)
}

// StockReport godoc
// @Summary      Relatório de estoque em XLSX
// @Tags         export
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/export/stock-report [get]
func (h *ImportExportHandler) StockReport(c *fiber.Ctx) error {
	data, err := h.uc.StockReportXLSX()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=relatorio-estoque.xlsx")
	return c.Send(data)
}

// ImportClients godoc
// @Summary      Importar clientes via CSV
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Arquivo CSV"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/clients [post]
func (h *ImportExportHandler) ImportClients(c *fiber.Ctx) error {
	reader, err := csvFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	out, err := h.uc.ImportClientsCSV(reader)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	return c.JSON(out)
}

// ImportProducts godoc
// @Summary      Importar produtos via CSV
// @Description  Composições na coluna "componentes" como "nome:quantidade;nome:quantidade".
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Arquivo CSV"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/products [post]
func (h *ImportExportHandler) ImportProducts(c *fiber.Ctx) error {
	reader, err := csvFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	out, err := h.uc.ImportProductsCSV(reader)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	return c.JSON(out)
}

// ImportProjects godoc
// @Summary      Importar projetos via CSV
// @Description  O cliente é resolvido pelo nome exato; linhas com cliente desconhecido são puladas.
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Arquivo CSV"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/projects [post]
func (h *ImportExportHandler) ImportProjects(c *fiber.Ctx) error {
	reader, err := csvFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	out, err := h.uc.ImportProjectsCSV(reader)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	return c.JSON(out)
}

// ImportTransactions godoc
// @Summary      Importar lançamentos financeiros via CSV
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Arquivo CSV"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/transactions [post]
func (h *ImportExportHandler) ImportTransactions(c *fiber.Ctx) error {
	reader, err := csvFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	out, err := h.uc.ImportTransactionsCSV(reader)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	return c.JSON(out)
}

func sendCSV(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(data)
}

// csvFile lê o arquivo enviado no campo "file"; sem multipart, usa o body cru.
func csvFile(c *fiber.Ctx) (*bytes.Reader, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return bytes.NewReader(c.Body()), nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, err
	}
	return bytes.NewReader(buf.Bytes()), nil
}
