package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"

	"medfind/internal/database"
	"medfind/internal/handlers"
	"medfind/internal/repositories"
	"medfind/internal/services"
	"medfind/pkg/config"
	"medfind/pkg/logger"
	"medfind/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	// --- Repositories ---
	storeRepo, medicineRepo, err := openRepositories(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open repositories")
	}

	// --- Inventory events (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		events = mqClient

		err = mqClient.ConsumeInventoryEvents(func(msg amqp.Delivery) error {
			return services.HandleMedicineEvent(msg.Body)
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to start inventory event consumer")
		}
	} else {
		log.Info().Msg("RABBITMQ_URL not set, inventory events disabled")
	}

	// --- Services and HTTP app ---
	app := newApp(cfg, handlers.Deps{
		Auth:      services.NewAuthService(storeRepo, cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		Inventory: services.NewInventoryService(medicineRepo, events),
		Search:    services.NewSearchService(storeRepo, medicineRepo),
	})

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.App.Port).Str("db", cfg.DB.Driver).Msg("starting server")
		if err := app.Listen(cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// newApp builds the fiber app with its middleware stack and routes.
func newApp(cfg *config.Config, deps handlers.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "medfind",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, deps)
	return app
}

// openRepositories picks GORM repositories for postgres/sqlite and in-memory ones for "memory".
func openRepositories(cfg config.DBConfig) (repositories.StoreRepository, repositories.MedicineRepository, error) {
	if cfg.Driver == "memory" {
		return repositories.NewMockStoreRepository(), repositories.NewMockMedicineRepository(), nil
	}
	db, err := database.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewGORMStoreRepository(db), repositories.NewGORMMedicineRepository(db), nil
}
