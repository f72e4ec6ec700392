package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jraydirect/wagerloop-sub005/internal/config"
	"github.com/jraydirect/wagerloop-sub005/internal/engine"
	"github.com/jraydirect/wagerloop-sub005/internal/gamecontext"
	"github.com/jraydirect/wagerloop-sub005/internal/handlers"
	"github.com/jraydirect/wagerloop-sub005/internal/logger"
	"github.com/jraydirect/wagerloop-sub005/internal/metrics"
	"github.com/jraydirect/wagerloop-sub005/internal/producer"
	"github.com/jraydirect/wagerloop-sub005/internal/repo"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("slip-engine", cfg.Env)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Game-context store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	games := gamecontext.NewRedisProvider(rdb)

	// Finalized-slip persistence; the extraction API still works without it
	var repository *repo.Postgres
	db, err := repo.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Warn("postgres unavailable, finalize disabled", zap.Error(err))
	} else {
		repository = repo.NewPostgres(db)
		defer db.Close()
	}

	events := producer.NewSlipEvents(cfg.Kafka.Brokers, cfg.Kafka.TopicSlipFinalized)
	defer events.Close()

	eng := engine.New(cfg.Engine, log)
	handler := handlers.NewHandler(eng, games, repository, events, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Mount("/", handler.Routes())

	metricsSrv := metrics.StartServer(cfg.Server.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("slip-engine started",
			zap.String("port", cfg.Server.Port),
			zap.String("metrics_port", cfg.Server.MetricsPort),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("slip-engine stopped")
}
