// The worker binary consumes molecule events from Kafka and keeps an audit
// trail: structured logs plus Prometheus counters for parsed, rejected, and
// deleted molecules.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/MolParse/internal/config"
	"github.com/turtacn/MolParse/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/prometheus"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	metricsPort := flag.Int("metrics-port", 9091, "port for the /metrics endpoint")
	flag.Parse()

	if err := run(*configPath, *metricsPort); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, metricsPort int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka is disabled in configuration; the worker has nothing to do")
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logger.Named("worker")

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger.Named("metrics"))
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	consumed := collector.RegisterCounter("events_consumed_total",
		"Molecule events consumed by topic.", "topic")
	rejectedCodes := collector.RegisterCounter("rejected_codes_total",
		"Rejected molecules by parse error code.", "code")

	consumer, err := kafka.NewConsumer(cfg.Kafka.Consumer, logger.Named("consumer"))
	if err != nil {
		return fmt.Errorf("init kafka consumer: %w", err)
	}

	consumer.Subscribe(kafka.TopicMoleculeParsed, func(ctx context.Context, msg *kafka.Message) error {
		envelope, err := kafka.DecodeEnvelope(msg)
		if err != nil {
			return err
		}
		var payload kafka.MoleculeParsedPayload
		if err := envelope.DecodePayload(&payload); err != nil {
			return err
		}
		consumed.WithLabelValues(msg.Topic).Inc()
		logger.Info("molecule parsed",
			logging.String("event_id", envelope.EventID),
			logging.String("smiles", payload.SMILES),
			logging.String("formula", payload.Formula),
			logging.Int("atoms", payload.AtomCount),
			logging.Int("bonds", payload.BondCount))
		return nil
	})

	consumer.Subscribe(kafka.TopicMoleculeRejected, func(ctx context.Context, msg *kafka.Message) error {
		envelope, err := kafka.DecodeEnvelope(msg)
		if err != nil {
			return err
		}
		var payload kafka.MoleculeRejectedPayload
		if err := envelope.DecodePayload(&payload); err != nil {
			return err
		}
		consumed.WithLabelValues(msg.Topic).Inc()
		rejectedCodes.WithLabelValues(payload.ErrorCode).Inc()
		logger.Warn("molecule rejected",
			logging.String("event_id", envelope.EventID),
			logging.String("smiles", payload.SMILES),
			logging.String("kind", payload.ErrorKind),
			logging.String("code", payload.ErrorCode),
			logging.Int("column", payload.Column))
		return nil
	})

	consumer.Subscribe(kafka.TopicMoleculeDeleted, func(ctx context.Context, msg *kafka.Message) error {
		envelope, err := kafka.DecodeEnvelope(msg)
		if err != nil {
			return err
		}
		var payload kafka.MoleculeDeletedPayload
		if err := envelope.DecodePayload(&payload); err != nil {
			return err
		}
		consumed.WithLabelValues(msg.Topic).Inc()
		logger.Info("molecule deleted",
			logging.String("event_id", envelope.EventID),
			logging.String("molecule_id", payload.MoleculeID))
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	logger.Info("worker started",
		logging.String("group", cfg.Kafka.Consumer.GroupID),
		logging.Int("metrics_port", metricsPort))

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsSrv := &http.Server{
		Addr:        fmt.Sprintf(":%d", metricsPort),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", logging.Err(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	if err := consumer.Close(); err != nil {
		return err
	}

	stats := consumer.Stats()
	logger.Info("worker stopped",
		logging.Int64("consumed", stats.Consumed),
		logging.Int64("failed", stats.Failed))
	return nil
}
