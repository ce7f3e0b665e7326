package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ChinmayIngle26/PhishGuard/internal/classifier"
	"github.com/ChinmayIngle26/PhishGuard/internal/config"
	"github.com/ChinmayIngle26/PhishGuard/internal/db"
	"github.com/ChinmayIngle26/PhishGuard/internal/handlers"
	"github.com/ChinmayIngle26/PhishGuard/internal/metrics"
	"github.com/ChinmayIngle26/PhishGuard/internal/middleware"
	"github.com/ChinmayIngle26/PhishGuard/internal/models"
	"github.com/ChinmayIngle26/PhishGuard/internal/reputation"
	"github.com/ChinmayIngle26/PhishGuard/internal/scan"
	"github.com/ChinmayIngle26/PhishGuard/internal/telemetry"
	"github.com/ChinmayIngle26/PhishGuard/internal/templates"
)

func main() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	gateway := classifier.NewGeminiGateway(
		cfg.GeminiBaseURL,
		cfg.GeminiModel,
		cfg.GeminiAPIKey,
		cfg.ClassifierTimeout,
		cfg.ClassifierRPM,
	)
	slog.Info("Classifier gateway initialized", "model", cfg.GeminiModel, "timeout", cfg.ClassifierTimeout, "rpm", cfg.ClassifierRPM)

	verdictCache := telemetry.NewTTLCache[*models.URLVerdict]("verdicts", 512, cfg.VerdictCacheTTL)
	pipeline := scan.New(gateway, database, verdictCache)
	ledger := reputation.New(database)

	rateLimiter := middleware.NewInMemoryRateLimiter()
	slog.Info("Rate limiter initialized", "backend", "in-memory", "max_requests", middleware.RateLimitMaxRequests, "window_seconds", middleware.RateLimitWindow)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.SetHTMLTemplate(templates.Load())

	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestContext())
	router.Use(middleware.SecurityHeaders())

	scanHandler := handlers.NewScanHandler(pipeline)
	shieldHandler := handlers.NewShieldHandler(pipeline)
	emailHandler := handlers.NewEmailHandler(pipeline, rateLimiter)
	reputationHandler := handlers.NewReputationHandler(ledger)
	threatsHandler := handlers.NewThreatsHandler(database)
	healthHandler := handlers.NewHealthHandler(database, gateway.Upstream, pipeline)

	// The scan endpoint is called cross-origin by the browser extension.
	scanGroup := router.Group("/api")
	scanGroup.Use(middleware.CORS())
	scanGroup.POST("/scan", scanHandler.Scan)
	// CORS() aborts preflights with 204 before this handler runs; it
	// exists only so gin registers the route.
	scanGroup.OPTIONS("/scan", func(c *gin.Context) {})

	router.GET("/shield", shieldHandler.Shield)
	router.POST("/api/analyze-email", emailHandler.AnalyzeEmail)
	router.POST("/api/get-reputation", reputationHandler.GetReputation)
	router.POST("/api/signup", reputationHandler.Signup)
	router.POST("/api/feedback", reputationHandler.SubmitFeedback)
	router.GET("/api/threats", threatsHandler.RecentThreats)
	router.GET("/api/health", healthHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	slog.Info("Starting PhishGuard server", "address", addr, "version", cfg.AppVersion)

	if err := router.Run(addr); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
