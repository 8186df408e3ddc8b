package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/jhoicas/facturation-api/internal/application/access"
	appanalytics "github.com/jhoicas/facturation-api/internal/application/analytics"
	"github.com/jhoicas/facturation-api/internal/application/billing"
	"github.com/jhoicas/facturation-api/internal/application/payment"
	"github.com/jhoicas/facturation-api/internal/infrastructure/cache"
	"github.com/jhoicas/facturation-api/internal/infrastructure/konnect"
	infrapdf "github.com/jhoicas/facturation-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturation-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturation-api/internal/infrastructure/queue"
	httpRouter "github.com/jhoicas/facturation-api/internal/interfaces/http"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Arranca el servidor HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "aplicar migraciones antes de escuchar")
}

func runServe(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return err
	}
	defer pool.Close()

	if migrateOnStart {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			return err
		}
	}

	// Redis opcional: sin REDIS_ADDR o sin respuesta se trabaja sin caché
	var accessCache access.Cache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, sin caché de acceso")
		} else {
			defer client.Close()
			accessCache = cache.NewRedisAccessCache(client, cfg.Redis.TTL, log)
		}
	}
	publisher := queue.NewPublisher(cfg.RabbitMQ, log)

	profileRepo := postgres.NewProfileRepository(pool)
	permissionRepo := postgres.NewPermissionRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	noteRepo := postgres.NewDeliveryNoteRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	subscriptions := access.NewSubscriptionService(subscriptionRepo, accessCache, publisher, access.SubscriptionConfig{
		TrialDays:  cfg.Subscription.TrialDays,
		AnnualDays: cfg.Subscription.AnnualDays,
	}, log)
	sessions := access.NewSessionService(profileRepo, permissionRepo, subscriptions, accessCache, access.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	payments := payment.NewUseCase(konnect.New(cfg.Payment), paymentRepo, subscriptions, publisher,
		payment.Config{FrontendURL: cfg.App.FrontendURL, Prices: cfg.Payment.PlanPrices()}, log)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Payment.Currency)

	if cfg.Subscription.SweepInterval > 0 {
		go subscriptions.RunSweeper(ctx, cfg.Subscription.SweepInterval)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturation API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:      sessions,
		Subscriptions: subscriptions,
		Payments:      payments,
		Dashboard:     appanalytics.NewDashboardUseCase(dashboardRepo),
		ClientUC:      billing.NewClientUseCase(clientRepo),
		ProductUC:     billing.NewProductUseCase(productRepo, categoryRepo),
		CategoryUC:    billing.NewCategoryUseCase(categoryRepo),
		InvoiceUC:     billing.NewInvoiceUseCase(txRunner, invoiceRepo, clientRepo, productRepo),
		QuoteUC:       billing.NewQuoteUseCase(txRunner, quoteRepo, clientRepo, productRepo),
		DeliveryUC:    billing.NewDeliveryNoteUseCase(txRunner, noteRepo, clientRepo, productRepo),
		SettingsUC:    billing.NewSettingsUseCase(settingsRepo),
		PDF:           billing.NewPDFUseCase(invoiceRepo, quoteRepo, noteRepo, clientRepo, settingsRepo, pdfGenerator),
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
