package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salesapp/client/internal/application/facade"
	"github.com/salesapp/client/internal/infrastructure/config"
	"github.com/salesapp/client/internal/infrastructure/connectivity"
	"github.com/salesapp/client/internal/infrastructure/logger"
	"github.com/salesapp/client/internal/infrastructure/persistence"
	"github.com/salesapp/client/internal/infrastructure/remote"
	"github.com/salesapp/client/internal/interfaces/http/handler"
	"github.com/salesapp/client/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting sync daemon",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("remote", cfg.Remote.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := persistence.NewDatabase(cfg.Storage.Path, logger.NewGormLogger(log, cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to open cache database", zap.Error(err))
	}
	defer database.Close()

	store := persistence.NewSnapshotStore(database)
	queue := persistence.NewPendingQueue(database)
	launches := persistence.NewLaunchTracker(database)

	monitor := connectivity.NewProbeMonitor(
		cfg.Connectivity.ProbeURL,
		cfg.Connectivity.ProbeInterval,
		cfg.Connectivity.ProbeTimeout,
		log,
	)
	monitor.CheckNow(ctx)
	go monitor.Start(ctx)

	remoteClient := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)

	dataFacade := facade.New(store, queue, remoteClient, monitor, launches, facade.Options{
		PageSize: cfg.Sync.PageSize,
		MaxPages: cfg.Sync.MaxPages,
	}, log)
	if err := dataFacade.Start(ctx); err != nil {
		log.Fatal("Failed to load cached data", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	handler.RegisterValidators()
	router.NewRouter(engine).
		Register(handler.NewCatalogHandler(dataFacade)).
		Register(handler.NewOrderHandler(dataFacade)).
		Register(handler.NewSyncHandler(dataFacade)).
		Setup()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Stopped")
}
