package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/pkg/errors"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		m := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func fastRetryConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "molparse-test",
		Topics:  []string{TopicMoleculeParsed},
		Retry:   RetryConfig{MaxRetries: 2, Backoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond},
	}
}

func TestConsumer_DispatchesToHandler(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{
			Topic:   TopicMoleculeParsed,
			Offset:  7,
			Key:     []byte("k"),
			Value:   []byte(`{"event_id":"e1"}`),
			Headers: []kafka.Header{{Key: "event_type", Value: []byte("molecule.parsed")}},
		},
	}}
	c := NewConsumerFromReader(reader, fastRetryConfig(), logging.NewNopLogger())

	received := make(chan *Message, 1)
	c.Subscribe(TopicMoleculeParsed, func(_ context.Context, msg *Message) error {
		received <- msg
		return nil
	})

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	select {
	case msg := <-received:
		assert.Equal(t, TopicMoleculeParsed, msg.Topic)
		assert.Equal(t, int64(7), msg.Offset)
		assert.Equal(t, "molecule.parsed", msg.Headers["event_type"])
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}

	assert.Eventually(t, func() bool { return reader.committedCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
	assert.Equal(t, int64(1), c.Stats().Processed)
}

func TestConsumer_StartTwice(t *testing.T) {
	c := NewConsumerFromReader(&fakeReader{}, fastRetryConfig(), logging.NewNopLogger())
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyRunning)
}

func TestConsumer_CommitsUnhandledTopics(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Topic: "unknown.topic", Value: []byte("x")},
	}}
	c := NewConsumerFromReader(reader, fastRetryConfig(), logging.NewNopLogger())

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Eventually(t, func() bool { return reader.committedCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestConsumer_RetriesBeforeGivingUp(t *testing.T) {
	c := NewConsumerFromReader(&fakeReader{}, fastRetryConfig(), logging.NewNopLogger())

	attempts := 0
	handler := func(_ context.Context, _ *Message) error {
		attempts++
		if attempts < 3 {
			return assert.AnError
		}
		return nil
	}

	err := c.processMessage(context.Background(), &Message{Topic: TopicMoleculeParsed}, handler)
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, int64(2), c.Stats().Retried)
}

func TestConsumer_DeadLettersExhaustedMessages(t *testing.T) {
	cfg := fastRetryConfig()
	cfg.Retry.DeadLetterTopic = TopicDeadLetter
	c := NewConsumerFromReader(&fakeReader{}, cfg, logging.NewNopLogger())

	dlWriter := &fakeWriter{}
	c.deadLetter = testProducer(dlWriter)

	handler := func(_ context.Context, _ *Message) error { return assert.AnError }
	msg := &Message{
		Topic:   TopicMoleculeParsed,
		Offset:  3,
		Key:     []byte("k"),
		Value:   []byte("payload"),
		Headers: map[string]string{"event_type": "molecule.parsed"},
	}

	err := c.processMessage(context.Background(), msg, handler)
	assert.ErrorIs(t, err, assert.AnError)

	require.Len(t, dlWriter.written, 1)
	dl := dlWriter.written[0]
	assert.Equal(t, TopicDeadLetter, dl.Topic)
	assert.Equal(t, []byte("payload"), dl.Value)

	headers := make(map[string]string)
	for _, h := range dl.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, TopicMoleculeParsed, headers["original_topic"])
	assert.NotEmpty(t, headers["error_message"])
	assert.Equal(t, int64(1), c.Stats().DeadLettered)
}

func TestConsumerConfig_Validate(t *testing.T) {
	err := ConsumerConfig{}.Validate()
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))

	err = ConsumerConfig{Brokers: []string{"b:9092"}, Topics: []string{"t"}}.Validate()
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))

	err = ConsumerConfig{
		Brokers:     []string{"b:9092"},
		GroupID:     "g",
		Topics:      []string{"t"},
		StartOffset: "middle",
	}.Validate()
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))

	assert.NoError(t, fastRetryConfig().Validate())
}
