package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jportela/marcenaria-api/internal/application/auth"
	"github.com/jportela/marcenaria-api/internal/application/catalog"
	"github.com/jportela/marcenaria-api/internal/application/clients"
	"github.com/jportela/marcenaria-api/internal/application/finance"
	"github.com/jportela/marcenaria-api/internal/application/importexport"
	"github.com/jportela/marcenaria-api/internal/application/projects"
	"github.com/jportela/marcenaria-api/internal/application/stock"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	ClientUC       *clients.UseCase
	ProductUC      *catalog.ProductUseCase
	StockUC        *stock.UseCase
	ProjectUC      *projects.UseCase
	FinanceUC      *finance.UseCase
	ImportExportUC *importexport.UseCase
	JWTSecret      string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Clients
	clientGroup := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clientGroup.Post("/", clientHandler.Create)
	clientGroup.Get("/", clientHandler.List)
	clientGroup.Get("/:id", clientHandler.GetByID)
	clientGroup.Put("/:id", clientHandler.Update)
	clientGroup.Delete("/:id", clientHandler.Delete)

	// Products (catálogo + custo + disponibilidade)
	productGroup := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.StockUC)
	productGroup.Post("/", productHandler.Create)
	productGroup.Get("/", productHandler.List)
	productGroup.Get("/available-components", productHandler.AvailableComponents)
	productGroup.Get("/:id", productHandler.GetByID)
	productGroup.Put("/:id", productHandler.Update)
	productGroup.Delete("/:id", productHandler.Delete)
	productGroup.Get("/:id/cost", productHandler.Cost)
	productGroup.Post("/:id/recost", productHandler.RecalculateCost)
	productGroup.Get("/:id/availability", stockHandler.Availability)

	// Stock movements
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/movements", stockHandler.ListMovements)

	// Projects
	projectGroup := protected.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projectGroup.Post("/", projectHandler.Create)
	projectGroup.Get("/", projectHandler.List)
	projectGroup.Get("/:id", projectHandler.GetByID)
	projectGroup.Put("/:id", projectHandler.Update)
	projectGroup.Delete("/:id", projectHandler.Delete)
	projectGroup.Get("/:id/pdf", projectHandler.BudgetPDF)

	// Transactions + dashboard
	transactionGroup := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.FinanceUC)
	transactionGroup.Post("/", transactionHandler.Create)
	transactionGroup.Get("/", transactionHandler.List)
	transactionGroup.Get("/:id", transactionHandler.GetByID)
	protected.Get("/dashboard", transactionHandler.Dashboard)

	// Export / import (restrito a administradores)
	ieHandler := NewImportExportHandler(deps.ImportExportUC)
	exportGroup := protected.Group("/export", RequireRole(entity.RoleAdmin))
	exportGroup.Get("/clients", ieHandler.ExportClients)
	exportGroup.Get("/products", ieHandler.ExportProducts)
	exportGroup.Get("/projects", ieHandler.ExportProjects)
	exportGroup.Get("/transactions", ieHandler.ExportTransactions)
	exportGroup.Get("/stock-report", ieHandler.StockReport)

	importGroup := protected.Group("/import", RequireRole(entity.RoleAdmin))
	importGroup.Post("/clients", ieHandler.ImportClients)
	importGroup.Post("/products", ieHandler.ImportProducts)
	importGroup.Post("/projects", ieHandler.ImportProjects)
	importGroup.Post("/transactions", ieHandler.ImportTransactions)
}
