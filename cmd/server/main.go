package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/career-pulse/internal/config"
	"github.com/fadilmartias/career-pulse/internal/domain/fiber/handler"
	applog "github.com/fadilmartias/career-pulse/internal/logger"
	"github.com/fadilmartias/career-pulse/internal/middleware"
	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/fadilmartias/career-pulse/internal/repository"
	"github.com/fadilmartias/career-pulse/internal/service"
	"github.com/fadilmartias/career-pulse/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		applog.Log.Info("Could not load .env file")
	}

	logConfig := config.LoadLogConfig()
	if err := applog.InitLogger(logConfig.Level, logConfig.File); err != nil {
		applog.Log.Fatalf("Failed to initialize logger: %v", err)
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	generator, err := NewGenerator(ctx)
	if err != nil {
		applog.Log.Fatal(err)
	}
	prompts, err := service.DefaultPromptCatalog()
	if err != nil {
		applog.Log.Fatal(err)
	}
	analysis := service.NewAnalysisService(generator, prompts)

	publisher, closePublisher := NewPublisher()
	defer closePublisher()

	var progressStore usecase.ProgressStore = usecase.NewMemoryProgressStore()
	if dbConfig := config.LoadDBConfig(); dbConfig.Enabled() {
		progressStore = repository.NewProgressRepository(ConnectDB())
	} else {
		applog.Log.Warn("DB_HOST not set, challenge progress is kept in memory")
	}

	workspaces := usecase.NewWorkspaceUsecase(analysis, usecase.NewSectionLoaders(analysis), publisher, config.LoadOrchestratorConfig())
	handler.NewWorkspaceHandler(workspaces).RegisterRoutes(app)
	handler.NewProgressHandler(usecase.NewProgressUsecase(progressStore)).RegisterRoutes(app)

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			applog.Log.Debugf("Active goroutines: %d, workspaces: %d", runtime.NumGoroutine(), workspaces.Count())
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		applog.Log.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			applog.Log.Errorf("Shutdown failed: %v", err)
		}
	}()

	applog.Log.Infof("Server running on %s", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		applog.Log.Fatal(err)
	}
}

// NewGenerator picks the LLM backend from LLM_PROVIDER.
func NewGenerator(ctx context.Context) (service.Generator, error) {
	switch provider := config.LoadLLMConfig().Provider; provider {
	case config.ProviderOpenRouter:
		applog.Log.Info("Using OpenRouter provider")
		return service.NewOpenRouterService(), nil
	case config.ProviderGemini, "":
		applog.Log.Info("Using Gemini provider")
		gemini, err := service.NewGeminiService(ctx)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	default:
		return nil, errors.New("unknown LLM_PROVIDER " + provider)
	}
}

// NewPublisher connects to RabbitMQ when configured and queues events in
// front of it. Without it events are dropped. The returned func flushes the
// queue and closes the connection.
func NewPublisher() (service.EventPublisherInterface, func()) {
	cfg := config.LoadRabbitMQConfig()
	if cfg.URL == "" {
		applog.Log.Info("RABBITMQ_URL not set, workspace events are not published")
		return service.NoopPublisher{}, func() {}
	}
	rabbit, err := service.NewRabbitPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		applog.Log.Warnf("RabbitMQ unavailable, workspace events are not published: %v", err)
		return service.NoopPublisher{}, func() {}
	}
	applog.Log.Infof("Publishing workspace events to exchange %s", cfg.Exchange)

	publisher := service.NewAsyncPublisher(rabbit, cfg.QueueSize)
	return publisher, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publisher.Close(ctx); err != nil {
			applog.Log.Warnf("Workspace events not flushed: %v", err)
		}
		if err := rabbit.Close(); err != nil {
			applog.Log.Warnf("Failed to close RabbitMQ connection: %v", err)
		}
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		applog.Log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		applog.Log.Fatalf("Could not get database instance: %v", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&model.ChallengeProgress{}); err != nil {
		applog.Log.Fatal("migration failed: ", err)
	}
	return db
}
