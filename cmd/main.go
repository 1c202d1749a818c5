package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openrotor/basestation/internal/data/aggregates"
	"github.com/openrotor/basestation/internal/data/db"
	"github.com/openrotor/basestation/internal/data/repos"
	httpserver "github.com/openrotor/basestation/internal/http"
	"github.com/openrotor/basestation/internal/http/handlers"
	"github.com/openrotor/basestation/internal/observability"
	"github.com/openrotor/basestation/internal/platform/envutil"
	"github.com/openrotor/basestation/internal/platform/logger"
	"github.com/openrotor/basestation/internal/realtime"
	"github.com/openrotor/basestation/internal/realtime/bus"
	"github.com/openrotor/basestation/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()
	if err := db.AutoMigrateAll(thePG); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	if err := db.EnsureRaceIndexes(thePG); err != nil {
		log.Warn("Postgres index setup failed", "error", err)
	}

	// Observability
	metrics := observability.Init(log)
	metrics.StartServer(ctx, log, envutil.String("METRICS_ADDR", ":9091"))
	metrics.StartPostgresCollector(ctx, log, thePG)
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		metrics.StartRedisCollector(ctx, log, redisAddr)
	}
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "basestation",
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	// Repos
	log.Info("Setting up repos from main...")
	eventRepo := repos.NewEventRepo(thePG, log)
	raceRepo := repos.NewRaceRepo(thePG, log)
	raceGroupRepo := repos.NewRaceGroupRepo(thePG, log)
	trackerRepo := repos.NewTrackerRepo(thePG, log)
	raceHeatRepo := repos.NewRaceHeatRepo(thePG, log)
	heatEventRepo := repos.NewHeatEventRepo(thePG, log)

	// Aggregates
	heatAggregate := aggregates.NewHeatAggregate(aggregates.HeatAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    thePG,
			Log:   log,
			Hooks: aggregates.NewObservabilityHooks(metrics),
		},
		Races:    raceRepo,
		Heats:    raceHeatRepo,
		Events:   heatEventRepo,
		Groups:   raceGroupRepo,
		Trackers: trackerRepo,
	})

	// SSE hub, with an optional Redis bus so every instance behind a load
	// balancer sees every heat update.
	log.Info("Setting up SSE hub now...")
	sseHub := realtime.NewSSEHub(log)
	var emitter services.SSEEmitter = &services.HubEmitter{Hub: sseHub}
	if os.Getenv("REDIS_ADDR") != "" {
		sseBus, busErr := bus.NewSSEBus(log)
		if busErr != nil {
			log.Warn("Redis SSE bus init failed, falling back to in-process hub", "error", busErr)
		} else {
			if err := sseBus.StartForwarder(ctx, sseHub.Broadcast); err != nil {
				log.Warn("Redis SSE forwarder failed to start, falling back to in-process hub", "error", err)
				_ = sseBus.Close()
			} else {
				emitter = &services.RedisEmitter{Bus: sseBus, Log: log}
				defer sseBus.Close()
			}
		}
	}

	// Services
	log.Info("Setting up services from main...")
	heatNotifier := services.NewHeatNotifier(emitter)
	heatService := services.NewHeatService(thePG, log, heatAggregate, raceRepo, eventRepo, raceHeatRepo, heatEventRepo, heatNotifier)
	raceService := services.NewRaceService(thePG, log, raceRepo, eventRepo, raceGroupRepo, raceHeatRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	raceHandler := handlers.NewRaceHandler(raceService)
	heatHandler := handlers.NewHeatHandler(heatService)
	realtimeHandler := handlers.NewRealtimeHandler(log, sseHub)
	healthHandler := handlers.NewHealthHandler()

	// Router
	log.Info("Setting up router from main...")
	server := httpserver.NewServer(httpserver.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		RaceHandler:     raceHandler,
		HeatHandler:     heatHandler,
		RealtimeHandler: realtimeHandler,
		HealthHandler:   healthHandler,
	})

	port := envutil.String("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           server.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
