package routes

import (
	"errors"
	"fmt"

	"github.com/coocood/freecache"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tritonlifts/api/internal/ai"
	"github.com/tritonlifts/api/internal/coach"
	"github.com/tritonlifts/api/internal/config"
	"github.com/tritonlifts/api/internal/handlers"
	"github.com/tritonlifts/api/internal/middleware"
	"github.com/tritonlifts/api/internal/repository"
	"github.com/tritonlifts/api/internal/services"
	"github.com/tritonlifts/api/internal/session"
	"github.com/tritonlifts/api/internal/speech"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
	coachws "github.com/tritonlifts/api/internal/websocket"
)

type Dependencies struct {
	Config       *config.Config
	DB           repository.DBTX
	Sessions     session.Store
	Generator    ai.Generator
	Speaker      speech.Speaker
	RateLimiter  middleware.RequestRateLimiter
	CatalogCache *freecache.Cache
	Metrics      *metrics.Manager
	Registry     *prometheus.Registry
	Hub          *coachws.Hub
}

func RegisterRoutes(app *fiber.App, deps Dependencies) error {
	cfg := deps.Config
	if cfg == nil || deps.Sessions == nil || deps.Hub == nil {
		return errors.New("config, session store and websocket hub are required")
	}

	userRepo := repository.NewUserRepository(deps.DB)
	exerciseRepo := repository.NewExerciseRepository(deps.DB)
	workoutRepo := repository.NewWorkoutRepository(deps.DB)
	chatRepo := repository.NewChatRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.Sessions)
	catalogService := services.NewCatalogService(exerciseRepo, deps.CatalogCache, cfg.CatalogCacheTTL, deps.Metrics)
	workoutService := services.NewWorkoutService(workoutRepo, catalogService, deps.Sessions, deps.Metrics)
	coachService := coach.NewService(coach.Params{
		Generator: deps.Generator,
		Users:     userRepo,
		Volumes:   workoutService,
		History:   chatRepo,
		Speaker:   deps.Speaker,
		Settings:  cfg.Coach,
		Metrics:   deps.Metrics,
	})

	authHandler := handlers.NewAuthHandler(authService, deps.Hub)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	coachHandler := handlers.NewCoachHandler(coachService, deps.Hub, cfg.Coach.RevealInterval())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}
	if err := registerDocsRoutes(app, cfg); err != nil {
		return fmt.Errorf("register docs routes: %w", err)
	}

	requireSession := middleware.SessionRequired(deps.Sessions)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", requireSession, authHandler.Logout)
	auth.Get("/me", requireSession, authHandler.Me)

	// The websocket route authenticates from the query string, so it is
	// registered before the header based group.
	api.Use("/v1/ws", middleware.SessionFromQuery(deps.Sessions), coachHandler.WebSocketUpgrade)
	api.Get("/v1/ws", websocket.New(coachHandler.HandleWebSocket))

	authProtected := api.Group("/v1", requireSession)

	authProtected.Get("/muscle-groups", catalogHandler.ListMuscleGroups)
	authProtected.Get("/exercises", catalogHandler.ListExercises)
	authProtected.Get("/exercises/:id", catalogHandler.GetExercise)

	authProtected.Get("/drafts", workoutHandler.ListDrafts)
	authProtected.Put("/drafts/:exercise_id", workoutHandler.PutDraft)
	authProtected.Delete("/drafts/:exercise_id", workoutHandler.DeleteDraft)

	authProtected.Post("/workouts", workoutHandler.LogWorkout)
	authProtected.Get("/workouts", workoutHandler.ListWorkouts)
	authProtected.Get("/dashboard", workoutHandler.Dashboard)

	coachLimit := middleware.RateLimit(deps.RateLimiter, "coach", cfg.CoachRatePerMin, deps.Metrics)
	coachGroup := authProtected.Group("/coach")
	coachGroup.Post("/ask", coachLimit, coachHandler.Ask)
	coachGroup.Post("/heatmap", coachLimit, coachHandler.Heatmap)
	coachGroup.Get("/history", coachHandler.History)

	return nil
}
