package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
)

// RetryConfig controls handler retries and dead-lettering.
type RetryConfig struct {
	MaxRetries      int           `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	Backoff         time.Duration `mapstructure:"backoff" yaml:"backoff" json:"backoff"`
	MaxBackoff      time.Duration `mapstructure:"max_backoff" yaml:"max_backoff" json:"max_backoff"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic" yaml:"dead_letter_topic" json:"dead_letter_topic"`
}

// ConsumerConfig holds the settings for a Consumer.
type ConsumerConfig struct {
	Brokers        []string       `mapstructure:"brokers" yaml:"brokers" json:"brokers"`
	GroupID        string         `mapstructure:"group_id" yaml:"group_id" json:"group_id"`
	Topics         []string       `mapstructure:"topics" yaml:"topics" json:"topics"`
	StartOffset    string         `mapstructure:"start_offset" yaml:"start_offset" json:"start_offset"`
	CommitInterval time.Duration  `mapstructure:"commit_interval" yaml:"commit_interval" json:"commit_interval"`
	SessionTimeout time.Duration  `mapstructure:"session_timeout" yaml:"session_timeout" json:"session_timeout"`
	FetchMinBytes  int            `mapstructure:"fetch_min_bytes" yaml:"fetch_min_bytes" json:"fetch_min_bytes"`
	FetchMaxBytes  int            `mapstructure:"fetch_max_bytes" yaml:"fetch_max_bytes" json:"fetch_max_bytes"`
	Retry          RetryConfig    `mapstructure:"retry" yaml:"retry" json:"retry"`
	Security       SecurityConfig `mapstructure:"security" yaml:"security" json:"security"`
}

func (c *ConsumerConfig) applyDefaults() {
	if c.StartOffset == "" {
		c.StartOffset = "earliest"
	}
	if c.CommitInterval == 0 {
		c.CommitInterval = 5 * time.Second
	}
	if c.SessionTimeout == 0 {
		c.SessionTimeout = 30 * time.Second
	}
	if c.FetchMinBytes == 0 {
		c.FetchMinBytes = 1
	}
	if c.FetchMaxBytes == 0 {
		c.FetchMaxBytes = 10 << 20
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = 3
	}
	if c.Retry.Backoff == 0 {
		c.Retry.Backoff = time.Second
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = 30 * time.Second
	}
}

// Validate checks the consumer configuration.
func (c ConsumerConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if c.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "consumer group_id required")
	}
	if len(c.Topics) == 0 {
		return errors.New(errors.ErrCodeValidation, "consumer topics required")
	}
	switch c.StartOffset {
	case "", "earliest", "latest":
	default:
		return errors.New(errors.ErrCodeValidation, "start_offset must be earliest or latest")
	}
	if c.Retry.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "max_retries must be >= 0")
	}
	return c.Security.validate()
}

// ConsumerStats is a point-in-time snapshot of consumer counters.
type ConsumerStats struct {
	Consumed     int64
	Processed    int64
	Failed       int64
	Retried      int64
	DeadLettered int64
	Lag          int64
}

// Reader abstracts kafka.Reader so tests can inject a fake.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer dispatches molecule events to registered per-topic handlers.
// Handler failures are retried with exponential backoff; exhausted messages
// go to the dead-letter topic so the partition keeps moving.
type Consumer struct {
	reader Reader
	config ConsumerConfig
	logger logging.Logger

	mu       sync.RWMutex
	handlers map[string]MessageHandler

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	deadLetter *Producer

	consumed     atomic.Int64
	processed    atomic.Int64
	failures     atomic.Int64
	retried      atomic.Int64
	deadLettered atomic.Int64
	lag          atomic.Int64
}

// NewConsumer builds a Consumer for the configured group and topics.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	dialer := &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true}
	tlsCfg, err := cfg.Security.tlsConfig()
	if err != nil {
		return nil, err
	}
	dialer.TLS = tlsCfg
	mech, err := cfg.Security.saslMechanism()
	if err != nil {
		return nil, err
	}
	dialer.SASLMechanism = mech

	readerCfg := kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		GroupTopics:    cfg.Topics,
		MinBytes:       cfg.FetchMinBytes,
		MaxBytes:       cfg.FetchMaxBytes,
		CommitInterval: cfg.CommitInterval,
		SessionTimeout: cfg.SessionTimeout,
		StartOffset:    kafka.FirstOffset,
		Dialer:         dialer,
	}
	if cfg.StartOffset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}

	var deadLetter *Producer
	if cfg.Retry.DeadLetterTopic != "" {
		deadLetter, err = NewProducer(ProducerConfig{
			Brokers:  cfg.Brokers,
			Security: cfg.Security,
		}, logger.Named("dead-letter"))
		if err != nil {
			return nil, err
		}
	}

	return &Consumer{
		reader:     kafka.NewReader(readerCfg),
		config:     cfg,
		logger:     logger,
		handlers:   make(map[string]MessageHandler),
		deadLetter: deadLetter,
	}, nil
}

// NewConsumerFromReader wraps an existing reader.  Used in tests.
func NewConsumerFromReader(r Reader, cfg ConsumerConfig, logger logging.Logger) *Consumer {
	cfg.applyDefaults()
	return &Consumer{
		reader:   r,
		config:   cfg,
		logger:   logger,
		handlers: make(map[string]MessageHandler),
	}
}

// Subscribe registers the handler for a topic, replacing any previous one.
func (c *Consumer) Subscribe(topic string, handler MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
}

// Unsubscribe removes the handler for a topic.
func (c *Consumer) Unsubscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, topic)
}

// Start launches the consume loop.  It returns immediately; the loop runs
// until Close or the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)
	c.logger.Info("kafka consumer started", logging.String("group", c.config.GroupID))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetch failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		c.consumed.Add(1)
		c.lag.Store(m.HighWaterMark - m.Offset)

		msg := fromKafkaMessage(m)

		c.mu.RLock()
		handler, ok := c.handlers[m.Topic]
		c.mu.RUnlock()

		if !ok {
			c.logger.Warn("no handler for topic", logging.String("topic", m.Topic))
		} else if err := c.processMessage(ctx, msg, handler); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.failures.Add(1)
		} else {
			c.processed.Add(1)
		}

		// Commit either way: failed messages were dead-lettered or dropped,
		// and stalling the partition helps nobody.
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("commit failed", logging.Err(err))
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg *Message, handler MessageHandler) error {
	err := handler(ctx, msg)
	if err == nil {
		return nil
	}

	backoff := c.config.Retry.Backoff
	for i := 0; i < c.config.Retry.MaxRetries; i++ {
		c.retried.Add(1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		backoff *= 2
		if backoff > c.config.Retry.MaxBackoff {
			backoff = c.config.Retry.MaxBackoff
		}
	}

	c.logger.Error("handler failed after retries",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Err(err))

	if c.deadLetter != nil && c.config.Retry.DeadLetterTopic != "" {
		headers := make(map[string]string, len(msg.Headers)+2)
		for k, v := range msg.Headers {
			headers[k] = v
		}
		headers["original_topic"] = msg.Topic
		headers["error_message"] = err.Error()

		dlMsg := &ProducerMessage{
			Topic:   c.config.Retry.DeadLetterTopic,
			Key:     msg.Key,
			Value:   msg.Value,
			Headers: headers,
		}
		if dlErr := c.deadLetter.Publish(ctx, dlMsg); dlErr != nil {
			c.logger.Error("dead-letter publish failed", logging.Err(dlErr))
		} else {
			c.deadLettered.Add(1)
		}
	}
	return err
}

// Stats returns a snapshot of the consumer counters.
func (c *Consumer) Stats() ConsumerStats {
	return ConsumerStats{
		Consumed:     c.consumed.Load(),
		Processed:    c.processed.Load(),
		Failed:       c.failures.Load(),
		Retried:      c.retried.Load(),
		DeadLettered: c.deadLettered.Load(),
		Lag:          c.lag.Load(),
	}
}

// Close stops the consume loop and releases the reader.  Safe to call twice.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	err := c.reader.Close()
	if c.deadLetter != nil {
		c.deadLetter.Close()
	}
	c.logger.Info("kafka consumer closed", logging.Int64("consumed", c.consumed.Load()))
	return err
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}
