// Package config defines the configuration structures for the MolParse
// service.  No I/O or parsing logic lives here — only plain data types and
// validation.  Infrastructure packages own their sub-structs so that each
// component can be constructed directly from its section.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/MolParse/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolParse/internal/infrastructure/database/redis"
	"github.com/turtacn/MolParse/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CacheConfig holds parse-result cache behaviour.  Connection parameters
// live in the Redis section.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// KafkaConfig groups producer and consumer settings with an on/off switch;
// event publishing is optional for a standalone parser deployment.
type KafkaConfig struct {
	Enabled  bool                 `mapstructure:"enabled"`
	Source   string               `mapstructure:"source"` // event source tag, e.g. "molparse-api"
	Producer kafka.ProducerConfig `mapstructure:"producer"`
	Consumer kafka.ConsumerConfig `mapstructure:"consumer"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	Path      string `mapstructure:"path"`
}

// ParserConfig holds limits applied to incoming SMILES input.
type ParserConfig struct {
	MaxInputLength int  `mapstructure:"max_input_length"`
	PersistResults bool `mapstructure:"persist_results"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration for the service.  Every infrastructure
// component reads its settings from the relevant sub-struct.
type Config struct {
	Server   ServerConfig            `mapstructure:"server"`
	Database postgres.PostgresConfig `mapstructure:"database"`
	Redis    redis.RedisConfig       `mapstructure:"redis"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Kafka    KafkaConfig             `mapstructure:"kafka"`
	Log      logging.LogConfig       `mapstructure:"log"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
	Parser   ParserConfig            `mapstructure:"parser"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.Username == "" {
		return fmt.Errorf("config: database.username is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("config: database.database is required")
	}

	if c.Redis.Addr == "" && c.Redis.Mode != "sentinel" && c.Redis.Mode != "cluster" {
		return fmt.Errorf("config: redis.addr is required in standalone mode")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}
	if c.Cache.DefaultTTL < 0 {
		return fmt.Errorf("config: cache.default_ttl must be >= 0")
	}

	if c.Kafka.Enabled {
		if err := c.Kafka.Producer.Validate(); err != nil {
			return fmt.Errorf("config: kafka.producer: %w", err)
		}
		if c.Kafka.Source == "" {
			return fmt.Errorf("config: kafka.source is required when kafka is enabled")
		}
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	if c.Parser.MaxInputLength < 1 {
		return fmt.Errorf("config: parser.max_input_length must be >= 1, got %d", c.Parser.MaxInputLength)
	}

	return nil
}
