package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/config"
	"github.com/dimitrije/leaderboard-api/internal/database"
	"github.com/dimitrije/leaderboard-api/internal/handlers"
	"github.com/dimitrije/leaderboard-api/internal/logger"
	"github.com/dimitrije/leaderboard-api/internal/metrics"
	appmw "github.com/dimitrije/leaderboard-api/internal/middleware"
	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/dimitrije/leaderboard-api/internal/oauth"
	"github.com/dimitrije/leaderboard-api/internal/services"
	"github.com/dimitrije/leaderboard-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.EnsureIndexes(ctx, models.LeaderboardSchema.Collection, models.ScoreSchema.Collection); err != nil {
		zl.Fatal("Failed to create indexes", zap.Error(err))
	}

	m := metrics.NewManager(metrics.WithGoCollectors())

	leaderboardService := services.NewRecordService(
		models.LeaderboardSchema,
		services.Instrument(db.Collection(models.LeaderboardSchema.Collection), m),
		cfg.StoreTimeout,
	)
	scoreService := services.NewRecordService(
		models.ScoreSchema,
		services.Instrument(db.Collection(models.ScoreSchema.Collection), m),
		cfg.StoreTimeout,
	)
	userService := services.NewUserService(db.Collection(database.UsersCollection))
	sessionService := services.NewSessionService(cfg.SessionSecret, cfg.SessionExpiry)

	var provider oauth.Provider
	if cfg.OAuthEnabled() {
		p, err := oauth.NewOIDCProvider(ctx, cfg, oauth.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}))
		if err != nil {
			zl.Fatal("Failed to set up identity provider", zap.String("issuer", cfg.IssuerURL()), zap.Error(err))
		}
		provider = p
	} else {
		zl.Warn("Identity provider not configured, login is disabled")
	}

	leaderboardHandler := handlers.NewRecordHandler(leaderboardService, cfg.BaseURL, zl)
	scoreHandler := handlers.NewRecordHandler(scoreService, cfg.BaseURL, zl)
	authHandler := handlers.NewAuthHandler(provider, sessionService, cfg.BaseURL, cfg.IsProduction(), zl)
	pageHandler := handlers.NewPageHandler(userService, leaderboardService, zl)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(appmw.Session(sessionService))

	for _, h := range []*handlers.RecordHandler{leaderboardHandler, scoreHandler} {
		app.Post(h.ItemPath(), h.Create)
		app.Get(h.ItemPath()+":id", h.Get)
		app.Get(h.ListPath(), h.List)
	}

	app.Get("/login", authHandler.Login)
	app.Get("/callback", authHandler.Callback)
	app.Post("/callback", authHandler.Callback)
	app.Get("/logout", authHandler.Logout)

	app.Get("/", pageHandler.Home)
	app.Get("/adduser", pageHandler.AddUser)
	app.Get("/addleaderboard", pageHandler.AddLeaderboard)
	app.Post("/addleaderboard", pageHandler.AddLeaderboard)

	app.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, dto.HealthResponse{Status: "ok"})
	})

	metricsHandler := m.Handler()
	app.Get("/metrics", func(c *drift.Context) {
		metricsHandler.ServeHTTP(c.Response, c.Request)
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           appmw.RequestLog(app, zl, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server shutdown failed", zap.Error(err))
	}
	if err := db.Close(shutdownCtx); err != nil {
		zl.Error("Failed to disconnect from database", zap.Error(err))
	}
}
