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

	"github.com/jhoicas/Presupuestos-api/internal/application/auth"
	"github.com/jhoicas/Presupuestos-api/internal/application/quoting"
	"github.com/jhoicas/Presupuestos-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Presupuestos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Presupuestos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Presupuestos-api/internal/interfaces/http"
	"github.com/jhoicas/Presupuestos-api/pkg/config"
	"github.com/jhoicas/Presupuestos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	priceRepo := postgres.NewPriceListRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	quoteUC := quoting.NewQuoteUseCase(
		txRunner, quoteRepo, customerRepo, vendorRepo, companyRepo, productRepo, priceRepo,
		quoting.Config{
			DefaultValidityDays: cfg.Quote.DefaultValidityDays,
			NumberPrefix:        cfg.Quote.NumberPrefix,
		},
		nil, log,
	)
	customerUC := quoting.NewCustomerUseCase(customerRepo, log)
	vendorUC := quoting.NewVendorUseCase(vendorRepo)

	// PDF: presupuesto imprimible con QR de verificación
	pdfUC := quoting.NewPDFUseCase(
		quoteRepo, companyRepo, customerRepo, vendorRepo, productRepo,
		infrapdf.NewMarotoPDFGenerator(), nil,
	)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, vendorRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024, // padrón ARBA
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerPath); cfg.HTTP.SwaggerPath != "" && err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerPath,
			Path:     "docs",
			Title:    "Presupuestos API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     usecase.NewUserUseCase(userRepo),
		CompanyUC:  usecase.NewCompanyUseCase(companyRepo),
		ProductUC:  usecase.NewProductUseCase(productRepo),
		CustomerUC: customerUC,
		VendorUC:   vendorUC,
		QuoteUC:    quoteUC,
		PDFUC:      pdfUC,
		JWTSecret:  cfg.JWT.Secret,
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
