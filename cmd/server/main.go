package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/lending-engine/internal/cache"
	"github.com/segyhp/lending-engine/internal/config"
	"github.com/segyhp/lending-engine/internal/handler"
	"github.com/segyhp/lending-engine/internal/logger"
	"github.com/segyhp/lending-engine/internal/repository"
	"github.com/segyhp/lending-engine/internal/service"
	"github.com/segyhp/lending-engine/pkg/response"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	if cfg.IsDevelopment() {
		log.WithFields(logrus.Fields{
			"port":           cfg.Server.Port,
			"redis":          cfg.RedisEnabled(),
			"overpayment":    cfg.Business.LateFeeOverpayment,
			"presets_file":   cfg.Business.FeePresetsFile,
			"default_preset": cfg.Business.DefaultFeePreset,
		}).Debug("configuration loaded")
	}

	presets, err := config.LoadFeePresets(cfg.Business.FeePresetsFile)
	if err != nil {
		log.Fatalf("Failed to load fee policy presets: %v", err)
	}
	if name := cfg.Business.DefaultFeePreset; name != "" {
		if _, ok := presets.Lookup(name); !ok {
			log.Fatalf("Default fee policy preset %q not found in %s", name, cfg.Business.FeePresetsFile)
		}
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Redis is optional; without it locks are per process and nothing is cached
	var (
		redisClient *redis.Client
		locker      cache.LoanLocker     = cache.NewLocalLocker()
		breakdowns  cache.BreakdownCache = cache.NoopBreakdownCache{}
	)
	if cfg.RedisEnabled() {
		redisClient = initRedis(cfg)
		defer redisClient.Close()
		locker = cache.NewRedisLocker(redisClient, cfg.GetLoanLockTTL())
		breakdowns = cache.NewRedisBreakdownCache(redisClient, cfg.GetBreakdownCacheTTL())
	} else if cfg.IsProduction() {
		log.Warn("REDIS_HOST not set, loan locks only cover this process")
	} else {
		log.Info("REDIS_HOST not set, using in-process loan locks")
	}

	collectionService := service.NewCollectionService(
		repository.NewStore(db),
		repository.NewTxRunner(db),
		locker,
		breakdowns,
		presets,
		cfg,
		log,
	)
	collectionHandler := handler.NewCollectionHandler(collectionService, log)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(collectionHandler, healthHandler, log)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(collectionHandler *handler.CollectionHandler, healthHandler *handler.HealthHandler, log *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(handler.LogMiddleware(log))
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(response.JSONMiddleware)
	collectionHandler.RegisterRoutes(api)

	return router
}
