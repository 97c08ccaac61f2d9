package main

import (
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinecircle/cinecircle-backend/internal/cache"
	"github.com/cinecircle/cinecircle-backend/internal/handlers"
	"github.com/cinecircle/cinecircle-backend/internal/middleware"
	"github.com/cinecircle/cinecircle-backend/internal/repository"
	"github.com/cinecircle/cinecircle-backend/internal/service"
	"github.com/cinecircle/cinecircle-backend/internal/tmdb"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	})))

	if os.Getenv("JWT_SECRET") == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "CineCircle Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Initialize Redis cache (best-effort; the app runs without it)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		slog.Warn("redis connection failed, running without cache", "error", err)
		redisCache = nil
	} else {
		slog.Info("redis cache connected")
	}
	metaCache := cache.NewMetadataCache(redisCache)

	// Initialize TMDB client (best-effort; search returns 503 if missing)
	var tmdbClient *tmdb.Client
	if cfg, err := tmdb.LoadConfigFromEnv(); err != nil {
		slog.Warn("tmdb client not configured", "error", err)
	} else {
		tmdbClient = tmdb.NewClient(cfg)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	// Initialize services
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	authService := service.NewAuthService(userRepo)
	groupService := service.NewGroupService(groupRepo, rnd)
	var providerSource service.WatchProviderSource
	if tmdbClient != nil {
		providerSource = tmdbClient
	}
	movieService := service.NewMovieService(movieRepo, groupRepo, ratingRepo, providerSource, metaCache)
	ratingService := service.NewRatingService(ratingRepo, movieRepo, groupRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	groupHandler := handlers.NewGroupHandler(groupService)
	movieHandler := handlers.NewMovieHandler(movieService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	searchHandler := handlers.NewSearchHandler(tmdbClient, metaCache)

	// Public routes
	api := app.Group("/api")
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired())
	protected.Get("/me", authHandler.Me)
	protected.Get("/tmdb/search", searchHandler.SearchMovies)

	// Group routes
	protected.Post("/groups", groupHandler.CreateGroup)
	protected.Get("/groups", groupHandler.GetMyGroups)
	protected.Post("/groups/join", groupHandler.JoinGroup)
	protected.Get("/groups/:id", groupHandler.GetGroup)
	protected.Post("/groups/:id/leave", groupHandler.LeaveGroup)
	protected.Post("/groups/:id/shuffle", groupHandler.Shuffle)
	protected.Patch("/groups/:id/settings", groupHandler.UpdateSettings)
	protected.Delete("/groups/:id/members/:memberID", groupHandler.RemoveMember)
	protected.Patch("/groups/:id/members/:memberID/skip", groupHandler.SetSkip)
	protected.Post("/groups/:id/members/:memberID/promote", groupHandler.PromoteMember)

	// Movie routes
	protected.Post("/groups/:id/movies", movieHandler.SelectMovie)
	protected.Get("/groups/:id/movies", movieHandler.ListGroupMovies)
	protected.Get("/groups/:id/movies/active", movieHandler.GetActiveMovie)
	protected.Get("/movies/:id", movieHandler.GetMovie)
	protected.Post("/movies/:id/status", movieHandler.UpdateStatus)

	// Rating routes
	protected.Post("/movies/:id/ratings", ratingHandler.SubmitRating)
	protected.Delete("/ratings/:id", ratingHandler.DeleteRating)

	// Metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "CineCircle is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := app.Listen(":" + port); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
