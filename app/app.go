// File: app/app.go
package app

import (
	"context"
	"go-auth-api/config"
	"go-auth-api/db"
	"go-auth-api/handler"
	"go-auth-api/logger"
	"go-auth-api/repository"
	"go-auth-api/router"
	"go-auth-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	if config.AppConfig.Database.AutoMigrate {
		if err := db.RunMigrations("file://db/migrations"); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(database)
	r := buildRouter(userRepo, redisClient)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// buildRouter wires every layer together exactly once. All service
// instances are constructed here and handed down by reference; nothing
// below this point reaches for process-wide state.
func buildRouter(userRepo repository.IUserRepository, redisClient *redis.Client) http.Handler {
	cfg := &config.AppConfig

	passwordService := service.NewPasswordService(cfg.Bcrypt.Cost)
	tokenService := service.NewTokenService(
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL,
	)
	authService := service.NewAuthService(userRepo, tokenService, passwordService)
	userService := service.NewUserService(userRepo, passwordService, redisClient)

	authHandler := handler.NewAuthHandler(authService, tokenService.RefreshTTL(), cfg.IsProduction())
	userHandler := handler.NewUserHandler(userService)

	counters := handler.NewRedisCounterStore(redisClient)
	authLimiter := handler.NewRateLimiter("auth", cfg.RateLimit.Auth,
		"Too many authentication attempts, please try again later", counters)
	refreshLimiter := handler.NewRateLimiter("refresh", cfg.RateLimit.Refresh,
		"Too many refresh attempts, please try again later", counters)
	apiLimiter := handler.NewRateLimiter("api", cfg.RateLimit.API,
		"Too many requests, please try again later", counters)

	return router.NewRouter(
		authHandler, userHandler,
		handler.AuthMiddleware(tokenService),
		authLimiter, refreshLimiter, apiLimiter,
	)
}

// TestApp exposes a fully wired router over injected dependencies so
// tests can drive the HTTP surface without a running server.
type TestApp struct {
	Repo   repository.IUserRepository
	Router http.Handler
}

// NewTestApp builds the same wiring as Run from the given user store
// and redis client. config.AppConfig must be populated first.
func NewTestApp(userRepo repository.IUserRepository, redisClient *redis.Client) *TestApp {
	return &TestApp{
		Repo:   userRepo,
		Router: buildRouter(userRepo, redisClient),
	}
}
