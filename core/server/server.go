package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hangout-api/core/config"
	"hangout-api/core/constants"
	"hangout-api/core/database"
	"hangout-api/core/logger"
	"hangout-api/core/middleware"
	"hangout-api/core/tasks"
	"hangout-api/modules/availability"
	"hangout-api/modules/hangout"
	"hangout-api/modules/notification"
	"hangout-api/modules/suggestion"
	"hangout-api/modules/vote"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// Run boots the API server and the background worker, and blocks until a
// shutdown signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	tc := tasks.NewClient(redisOpt)
	defer tc.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	mw := middleware.New(cfg.Auth.SessionSecret)
	mux := asynq.NewServeMux()

	// Module wiring. Notification comes first: it is the sink everything
	// else publishes committed changes through.
	sink := notification.Init(e, db, mw, mux, rdb, tc)
	hangoutSvc := hangout.Init(e, db, mw, mux, sink, tc)
	loader := hangoutSvc.Loader()
	availability.Init(e, db, mw, loader, sink)
	suggestion.Init(e, db, mw, loader, sink)
	vote.Init(e, db, mw, loader, sink)

	worker := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Queues: map[string]int{
			constants.QueueDefault: 6,
			constants.QueueLow:     3,
		},
	})
	if err := worker.Start(mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register(cfg.Worker.ConcludeSweepSpec, asynq.NewTask(tasks.TypeConcludeOverdue, nil)); err != nil {
		return fmt.Errorf("register conclude sweep: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()
	logger.Info("server started", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", err)
	}
	scheduler.Shutdown()
	worker.Shutdown()
	return nil
}
