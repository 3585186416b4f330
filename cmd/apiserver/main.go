// The apiserver binary runs the MolParse HTTP API: SMILES parsing with
// optional result caching, persistence, and event publication.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/MolParse/internal/application/parsing"
	"github.com/turtacn/MolParse/internal/config"
	"github.com/turtacn/MolParse/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolParse/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/MolParse/internal/infrastructure/database/redis"
	"github.com/turtacn/MolParse/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/MolParse/internal/interfaces/http"
	"github.com/turtacn/MolParse/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	migrationsPath := flag.String("migrations", "file://migrations", "migrations source URL")
	skipMigrations := flag.Bool("skip-migrations", false, "do not run database migrations on startup")
	flag.Parse()

	if err := run(*configPath, *migrationsPath, *skipMigrations); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, migrationsPath string, skipMigrations bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logger.Info("starting molparse api server",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics.
	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			Subsystem:            cfg.Metrics.Subsystem,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger.Named("metrics"))
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	health := handlers.NewHealthHandler(logger.Named("health"))

	// Postgres.
	if !skipMigrations {
		if err := postgres.RunMigrations(cfg.Database.MigrateDSN(), migrationsPath); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}
	conn, err := postgres.NewConnection(ctx, cfg.Database, logger.Named("postgres"))
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close()
	repo := repositories.NewMoleculeRepository(conn.Pool(), logger.Named("molecules"))
	health.AddCheck("postgres", handlers.PingerFunc(conn.HealthCheck))

	// Redis cache.
	var cache redis.Cache
	if cfg.Cache.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis, logger.Named("redis"))
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		cache = redis.NewCache(redisClient, logger.Named("cache"),
			redis.WithPrefix(cfg.Cache.KeyPrefix),
			redis.WithDefaultTTL(cfg.Cache.DefaultTTL))
		health.AddCheck("redis", handlers.PingerFunc(redisClient.Ping))
	}

	// Kafka producer.
	var publisher parsing.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Producer, logger.Named("kafka"))
		if err != nil {
			return fmt.Errorf("init kafka producer: %w", err)
		}
		defer producer.Close()
		publisher = producer

		topics, err := kafka.NewTopicManager(cfg.Kafka.Producer.Brokers, logger.Named("topics"))
		if err != nil {
			logger.Warn("kafka topic manager unavailable", logging.Err(err))
		} else {
			if err := topics.EnsureDefaultTopics(ctx); err != nil {
				logger.Warn("ensure kafka topics failed", logging.Err(err))
			}
			topics.Close()
		}
	}

	svc := parsing.NewService(repo, cache, publisher, metrics, logger.Named("parsing"), parsing.Config{
		MaxInputLength: cfg.Parser.MaxInputLength,
		CacheTTL:       cfg.Cache.DefaultTTL,
		EventSource:    cfg.Kafka.Source,
	})

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Molecules: handlers.NewMoleculeHandler(svc, logger.Named("http")),
		Health:    health,
		Logger:    logger.Named("http"),
		Metrics:   metrics,
		Collector: collector,
		Mode:      cfg.Server.Mode,
	})

	server := httpserver.NewServer(router, httpserver.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
