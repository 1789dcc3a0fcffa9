package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"github.com/tritonlifts/api/internal/ai"
	"github.com/tritonlifts/api/internal/config"
	"github.com/tritonlifts/api/internal/database"
	"github.com/tritonlifts/api/internal/logging"
	"github.com/tritonlifts/api/internal/middleware"
	"github.com/tritonlifts/api/internal/routes"
	"github.com/tritonlifts/api/internal/session"
	"github.com/tritonlifts/api/internal/speech"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
	coachws "github.com/tritonlifts/api/internal/websocket"
	"go.uber.org/multierr"
)

// 32 MB is plenty for the exercise catalog.
const catalogCacheSize = 32 * 1024 * 1024

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	logsCloser := logging.Setup(logging.SetupParams{
		LogFileName: cfg.LogFile,
		LogToStdout: cfg.LogToStdout,
		LogLevel:    cfg.LogLevel,
		LogJSON:     cfg.LogJSON,
	})

	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := database.Connect(ctx, database.ConnectParams{
		DBUrl:          cfg.DBUrl,
		TracingEnabled: cfg.TracingEnabled,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %s", err)
	}

	promRegistry := metrics.SetupPrometheus(pgxpoolprometheus.NewCollector(
		pool,
		map[string]string{"db_name": pool.Config().ConnConfig.Database},
	))
	metricsManager := metrics.NewManager("tritonlifts", "api", promRegistry)

	var (
		rdb         *redis.Client
		sessions    session.Store
		rateLimiter middleware.RequestRateLimiter
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if cfg.TracingEnabled {
			rdb.AddHook(redisotel.NewTracingHook())
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		}
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		rateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Warn("REDIS_ADDR not set: sessions are kept in memory and coach requests are not rate limited")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	tracedHttpClient := ai.NewTracedHTTPClient()

	var generator ai.Generator
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		generator = ai.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIAPIKey, tracedHttpClient)
	default:
		generator = ai.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, tracedHttpClient)
	}
	log.Infof("coach answers generated by %s", cfg.AIProvider)

	var (
		speaker     speech.Speaker = speech.NopSpeaker{}
		httpSpeaker *speech.HTTPSpeaker
	)
	if cfg.TTSURL != "" {
		httpSpeaker = speech.NewHTTPSpeaker(cfg.TTSURL, tracedHttpClient)
		speaker = httpSpeaker
	}

	hub := coachws.NewHub(metricsManager)
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Triton Lifts API",
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{Output: log.StandardLogger().Out}))
	app.Use(middleware.RequestMetrics(metricsManager))

	if err := routes.RegisterRoutes(app, routes.Dependencies{
		Config:       cfg,
		DB:           pool,
		Sessions:     sessions,
		Generator:    generator,
		Speaker:      speaker,
		RateLimiter:  rateLimiter,
		CatalogCache: freecache.NewCache(catalogCacheSize),
		Metrics:      metricsManager,
		Registry:     promRegistry,
		Hub:          hub,
	}); err != nil {
		log.Fatalf("failed to register routes: %s", err)
	}

	go func() {
		log.Infof("server starting on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("server stopped: %s", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	var shutdownErr error
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
		shutdownErr = multierr.Append(shutdownErr, err)
	}
	if httpSpeaker != nil {
		httpSpeaker.Wait()
	}
	if rdb != nil {
		shutdownErr = multierr.Append(shutdownErr, rdb.Close())
	}
	pool.Close()
	shutdownErr = multierr.Append(shutdownErr, logsCloser.Close())

	if shutdownErr != nil {
		log.Errorf("shutdown: %s", shutdownErr)
		os.Exit(1)
	}
}
