package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jmoiron/sqlx"

	"ideascope/internal/adapters/ai"
	"ideascope/internal/adapters/config"
	"ideascope/internal/adapters/errors/noop"
	"ideascope/internal/adapters/errors/sentry"
	"ideascope/internal/adapters/kafka"
	"ideascope/internal/adapters/marketdata"
	"ideascope/internal/adapters/postgres"
	"ideascope/internal/adapters/redis"
	"ideascope/internal/agents"
	"ideascope/internal/api"
	"ideascope/internal/api/health"
	pgrepo "ideascope/internal/repository/postgres"
	"ideascope/internal/services/analysis"
	"ideascope/pkg/errors"
	"ideascope/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Storage. Both are optional: without Postgres the database tier is
	// skipped, without Redis agent results are not cached.
	pgClient := initPostgres(cfg, log)
	if pgClient != nil {
		defer func() { _ = pgClient.Close() }()
	}

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// LLM gateway. A missing provider key is survivable: agents run on
	// deterministic fallbacks and the sample tier still serves.
	gateway, err := ai.NewGateway(cfg.AI)
	if err != nil {
		log.Warnf("LLM gateway unavailable, analyses will degrade: %v", err)
	}

	deps := agents.Deps{
		Gateway: gateway,
		Config:  cfg.Agents,
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}
	if dataClient := marketdata.NewClient(cfg.DataSource); dataClient != nil {
		deps.Data = dataClient
		log.Info("Data source enrichment enabled")
	}

	orchestrator := agents.NewOrchestrator(deps)
	log.Infof("Agents enabled: %v", orchestrator.EnabledAgents())

	var store analysis.ReportStore
	if pgClient != nil {
		store = pgrepo.NewReportRepository(pgClient.DB())
	}

	var publisher analysis.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
		defer func() { _ = producer.Close() }()
		publisher = producer
		log.Info("Kafka events enabled")
	}

	service := analysis.NewService(orchestrator, store, publisher, cfg.Postgres.FetchTimeout)

	// HTTP surface.
	var sqlxDB *sqlx.DB
	if pgClient != nil {
		sqlxDB = pgClient.DB()
	}
	var rawRedis *goredis.Client
	if redisClient != nil {
		rawRedis = redisClient.Client()
	}
	healthHandler := health.New(log, sqlxDB, rawRedis, cfg.App.Name, cfg.App.Version)
	analysisHandler := api.NewAnalysisHandler(service, orchestrator)
	server := api.NewServer(api.ServerConfig{
		Port:        cfg.HTTP.Port,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}, healthHandler, analysisHandler, log)

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	log.Info("System initialized successfully")

	waitForShutdown(server, serverErr, errorTracker, log)
}

func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func initPostgres(cfg *config.Config, log *logger.Logger) *postgres.Client {
	client, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Warnf("PostgreSQL unavailable, running without stored reports: %v", err)
		return nil
	}
	log.Info("PostgreSQL connected")
	return client
}

func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Redis unavailable, running without agent cache: %v", err)
		return nil
	}
	log.Info("Redis connected")
	return client
}

func waitForShutdown(server *api.Server, serverErr chan error, tracker errors.Tracker, log *logger.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Infof("Received signal %s, shutting down", s)
	case err := <-serverErr:
		if err != nil {
			log.Errorf("HTTP server failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer flushCancel()
	if err := tracker.Flush(flushCtx); err != nil {
		log.Warnf("Error tracker flush failed: %v", err)
	}

	log.Info("Shutdown complete")
}
