package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jportela/marcenaria-api/internal/application/auth"
	"github.com/jportela/marcenaria-api/internal/application/catalog"
	"github.com/jportela/marcenaria-api/internal/application/clients"
	"github.com/jportela/marcenaria-api/internal/application/finance"
	"github.com/jportela/marcenaria-api/internal/application/importexport"
	"github.com/jportela/marcenaria-api/internal/application/projects"
	"github.com/jportela/marcenaria-api/internal/application/stock"
	infrapdf "github.com/jportela/marcenaria-api/internal/infrastructure/pdf"
	"github.com/jportela/marcenaria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jportela/marcenaria-api/internal/interfaces/http"
	"github.com/jportela/marcenaria-api/pkg/config"
	"github.com/jportela/marcenaria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	componentRepo := postgres.NewComponentRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	company := projects.CompanyInfo{
		Name:    cfg.Company.Name,
		CNPJ:    cfg.Company.CNPJ,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
	}

	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	clientUC := clients.NewUseCase(clientRepo)
	productUC := catalog.NewProductUseCase(txRunner, productRepo, componentRepo)
	stockUC := stock.NewUseCase(txRunner, productRepo, componentRepo, movementRepo)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	projectUC := projects.NewUseCase(txRunner, projectRepo, clientRepo, productRepo, stockUC, pdfGenerator, company)
	financeUC := finance.NewUseCase(transactionRepo, projectRepo, dashboardRepo)
	importExportUC := importexport.NewUseCase(clientRepo, productRepo, componentRepo, projectRepo, transactionRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Marcenaria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ClientUC:       clientUC,
		ProductUC:      productUC,
		StockUC:        stockUC,
		ProjectUC:      projectUC,
		FinanceUC:      financeUC,
		ImportExportUC: importExportUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação parada")
}
