package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/pkg/errors"
)

type fakeConn struct {
	created    []kafka.TopicConfig
	deleted    []string
	partitions []kafka.Partition
	createErr  error
	closed     bool
}

func (c *fakeConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.created = append(c.created, topics...)
	return nil
}

func (c *fakeConn) DeleteTopics(topics ...string) error {
	c.deleted = append(c.deleted, topics...)
	return nil
}

func (c *fakeConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	return c.partitions, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestTopicManager_CreateTopic(t *testing.T) {
	conn := &fakeConn{}
	m := NewTopicManagerFromConn(conn, logging.NewNopLogger())

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name:              TopicMoleculeParsed,
		NumPartitions:     6,
		ReplicationFactor: 1,
		RetentionMs:       3600000,
		CleanupPolicy:     "delete",
	})
	require.NoError(t, err)

	require.Len(t, conn.created, 1)
	created := conn.created[0]
	assert.Equal(t, TopicMoleculeParsed, created.Topic)
	assert.Equal(t, 6, created.NumPartitions)

	entries := make(map[string]string)
	for _, e := range created.ConfigEntries {
		entries[e.ConfigName] = e.ConfigValue
	}
	assert.Equal(t, "3600000", entries["retention.ms"])
	assert.Equal(t, "delete", entries["cleanup.policy"])
}

func TestTopicManager_CreateTopic_Validation(t *testing.T) {
	m := NewTopicManagerFromConn(&fakeConn{}, logging.NewNopLogger())

	err := m.CreateTopic(context.Background(), TopicConfig{NumPartitions: 1, ReplicationFactor: 1})
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))

	err = m.CreateTopic(context.Background(), TopicConfig{Name: "x", ReplicationFactor: 1})
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
}

func TestTopicManager_CreateTopic_ExistingTopicTolerated(t *testing.T) {
	conn := &fakeConn{
		createErr:  assert.AnError,
		partitions: []kafka.Partition{{Topic: "existing", ID: 0}},
	}
	m := NewTopicManagerFromConn(conn, logging.NewNopLogger())

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name: "existing", NumPartitions: 1, ReplicationFactor: 1,
	})
	assert.NoError(t, err)
}

func TestTopicManager_ListTopics_Deduplicates(t *testing.T) {
	conn := &fakeConn{partitions: []kafka.Partition{
		{Topic: "a", ID: 0},
		{Topic: "a", ID: 1},
		{Topic: "b", ID: 0},
	}}
	m := NewTopicManagerFromConn(conn, logging.NewNopLogger())

	topics, err := m.ListTopics(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, topics)
}

func TestTopicManager_EnsureDefaultTopics(t *testing.T) {
	conn := &fakeConn{}
	m := NewTopicManagerFromConn(conn, logging.NewNopLogger())

	require.NoError(t, m.EnsureDefaultTopics(context.Background()))

	names := make([]string, 0, len(conn.created))
	for _, c := range conn.created {
		names = append(names, c.Topic)
	}
	assert.Contains(t, names, TopicMoleculeParsed)
	assert.Contains(t, names, TopicMoleculeRejected)
	assert.Contains(t, names, TopicMoleculeDeleted)
	assert.Contains(t, names, TopicDeadLetter)
}

func TestTopicManager_Close(t *testing.T) {
	conn := &fakeConn{}
	m := NewTopicManagerFromConn(conn, logging.NewNopLogger())
	require.NoError(t, m.Close())
	assert.True(t, conn.closed)
}
