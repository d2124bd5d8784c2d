package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"warung/internal/catalogstub"
	"warung/internal/config"
	"warung/internal/handlers"
	"warung/internal/middleware"
	"warung/internal/repositories"
	"warung/internal/services"
	"warung/internal/uploads"
	"warung/pkg/rabbitmq"
	"warung/views"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	// --- Optional local catalog stub ---
	// When enabled, a DummyJSON-compatible stub serves as the remote
	// product service and the admin app points at it.
	var stub *catalogstub.Stub
	if cfg.StubEnabled {
		stub, err = catalogstub.New(cfg.StubDSN, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start catalog stub")
		}
		go func() {
			if err := stub.Listen(cfg.StubPort); err != nil {
				log.Fatal().Err(err).Msg("catalog stub failed")
			}
		}()
		cfg.ProductAPIURL = "http://localhost" + cfg.StubPort + "/products"
	}

	// --- Optional mutation event publishing ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		events = mqClient
		log.Info().Msg("product event publishing enabled")
	}

	// --- Repositories and services ---
	productRepo := repositories.NewRemoteProductRepository(cfg.ProductAPIURL, nil)
	productService := services.NewProductService(productRepo, events, log)
	authService, err := services.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}
	uploader := uploads.NewMemoryUploader()

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService, log)
	authHandler := handlers.NewAuthHandler(authService, log)
	uploadHandler := handlers.NewUploadHandler(uploader, log)

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		Views: views.Engine(),
	})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/products", fiber.StatusSeeOther)
	})

	// Public auth routes; everything else sits behind the session guard.
	authHandler.RegisterRoutes(app)
	protected := app.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protected)
	uploadHandler.RegisterRoutes(protected)

	// --- Start and shut down gracefully ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.AppPort).Str("remote", cfg.ProductAPIURL).Msg("admin server listening")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	if stub != nil {
		if err := stub.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error shutting down catalog stub")
		}
	}
	log.Info().Msg("server stopped")
}
