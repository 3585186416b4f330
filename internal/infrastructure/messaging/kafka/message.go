// Package kafka provides the message transport used to broadcast molecule
// lifecycle events.  A Producer publishes EventEnvelope-wrapped payloads, a
// Consumer dispatches them to per-topic handlers with retry and dead-letter
// support, and a TopicManager provisions the topics themselves.
package kafka

import (
	"context"
	"time"
)

// ProducerMessage is an outbound message before it is handed to the broker.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
	Partition int
}

// Message is an inbound message as delivered to a handler.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// MessageHandler processes a single consumed message.  Returning an error
// triggers the consumer's retry and dead-letter path.
type MessageHandler func(ctx context.Context, msg *Message) error

// BatchResult reports per-message outcomes of a batch publish.
type BatchResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchError
}

// BatchError identifies a single failed message within a batch.
type BatchError struct {
	Index int
	Topic string
	Err   error
}

// TopicConfig describes a topic to be provisioned by the TopicManager.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
	MaxMessageBytes   int
	Configs           map[string]string
}
