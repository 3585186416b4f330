package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultDBUser, cfg.Database.Username)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultCachePrefix, cfg.Cache.KeyPrefix)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.DefaultTTL)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Producer.Brokers)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, DefaultMaxInputLength, cfg.Parser.MaxInputLength)
}

func TestApplyDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Database.Host = "db.internal"
	cfg.Log.Level = "debug"
	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyDefaults_ConsumerInheritsProducerBrokers(t *testing.T) {
	cfg := &Config{}
	cfg.Kafka.Producer.Brokers = []string{"broker-a:9092"}
	ApplyDefaults(cfg)

	assert.Equal(t, []string{"broker-a:9092"}, cfg.Kafka.Consumer.Brokers)
}

func TestApplyDefaults_NilConfig(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
