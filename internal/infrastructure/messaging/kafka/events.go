package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/MolParse/pkg/errors"
)

// Topics published by the parse pipeline.
const (
	TopicMoleculeParsed   = "molecule.parsed"
	TopicMoleculeRejected = "molecule.rejected"
	TopicMoleculeDeleted  = "molecule.deleted"
	TopicDeadLetter       = "molecule.dead_letter"
)

// EventEnvelope is the wire format shared by all molecule events.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// MoleculeParsedPayload announces a successfully parsed molecule.
type MoleculeParsedPayload struct {
	MoleculeID string    `json:"molecule_id,omitempty"`
	SMILES     string    `json:"smiles"`
	Formula    string    `json:"formula"`
	Weight     float64   `json:"weight"`
	AtomCount  int       `json:"atom_count"`
	BondCount  int       `json:"bond_count"`
	Persisted  bool      `json:"persisted"`
	ParsedAt   time.Time `json:"parsed_at"`
}

// MoleculeRejectedPayload announces a parse failure.
type MoleculeRejectedPayload struct {
	SMILES     string    `json:"smiles"`
	ErrorKind  string    `json:"error_kind"`
	ErrorCode  string    `json:"error_code"`
	Column     int       `json:"column"`
	Message    string    `json:"message"`
	RejectedAt time.Time `json:"rejected_at"`
}

// MoleculeDeletedPayload announces removal of a stored molecule.
type MoleculeDeletedPayload struct {
	MoleculeID string    `json:"molecule_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}

// NewEventEnvelope wraps a payload in a fresh envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "event has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}

// ToMessage serializes the envelope into a ProducerMessage for the given
// topic.  The event type and trace id are duplicated into headers so brokers
// and consumers can route without unmarshalling the body.
func (e *EventEnvelope) ToMessage(topic string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return &ProducerMessage{
		Topic:     topic,
		Key:       []byte(e.EventID),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

// DecodeEnvelope parses a consumed message back into an EventEnvelope.
func DecodeEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal event envelope")
	}
	return &env, nil
}
