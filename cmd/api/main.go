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
	"github.com/shopspring/decimal"

	"github.com/bitmx/cotizador-api/internal/application/auth"
	"github.com/bitmx/cotizador-api/internal/application/catalog"
	"github.com/bitmx/cotizador-api/internal/application/quotes"
	"github.com/bitmx/cotizador-api/internal/domain/quote"
	"github.com/bitmx/cotizador-api/internal/infrastructure/postgres"
	httpRouter "github.com/bitmx/cotizador-api/internal/interfaces/http"
	"github.com/bitmx/cotizador-api/pkg/config"
	"github.com/bitmx/cotizador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración de esquema")
	}

	taxRate, err := decimal.NewFromString(cfg.Quotes.TaxRate)
	if err != nil {
		log.Fatal().Err(err).Str("tax_rate", cfg.Quotes.TaxRate).Msg("tasa de IVA inválida")
	}
	maxTotal, err := decimal.NewFromString(cfg.Quotes.AutoApproveMaxTotal)
	if err != nil {
		log.Fatal().Err(err).Str("max_total", cfg.Quotes.AutoApproveMaxTotal).Msg("tope de aprobación automática inválido")
	}
	policy := quote.ThresholdPolicy{
		MaxDiscount: cfg.Quotes.AutoApproveMaxDiscount,
		MaxTotal:    maxTotal,
	}

	quoteRepo := postgres.NewQuoteRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	createQuoteUC := quotes.NewCreateQuoteUseCase(txRunner, customerRepo, contactRepo, userRepo, nil)
	rebuildLinesUC := quotes.NewRebuildLinesUseCase(txRunner, userRepo, policy, taxRate, nil)
	workflowUC := quotes.NewWorkflowUseCase(quoteRepo, userRepo, policy, nil)
	commentUC := quotes.NewCommentUseCase(quoteRepo, userRepo, nil)
	queryUC := quotes.NewQueryUseCase(quoteRepo, userRepo, nil)
	lookupUC := catalog.NewLookupUseCase(productRepo, customerRepo, contactRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cotizador API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateQuote:  createQuoteUC,
		RebuildLines: rebuildLinesUC,
		Workflow:     workflowUC,
		Comments:     commentUC,
		Query:        queryUC,
		Lookup:       lookupUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
