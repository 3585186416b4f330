package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolParse/pkg/errors"
)

func TestNewEventEnvelope(t *testing.T) {
	payload := MoleculeParsedPayload{
		SMILES:    "CCO",
		Formula:   "C2H6O",
		AtomCount: 3,
		BondCount: 2,
		ParsedAt:  time.Now().UTC(),
	}
	env, err := NewEventEnvelope("molecule.parsed", "molparse-api", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "molecule.parsed", env.EventType)
	assert.Equal(t, "molparse-api", env.Source)
	assert.Equal(t, "v1", env.SchemaVersion)
	assert.False(t, env.Timestamp.IsZero())

	var decoded MoleculeParsedPayload
	require.NoError(t, env.DecodePayload(&decoded))
	assert.Equal(t, "CCO", decoded.SMILES)
	assert.Equal(t, "C2H6O", decoded.Formula)
}

func TestEventEnvelope_DecodePayload_Empty(t *testing.T) {
	env := &EventEnvelope{}
	var out MoleculeParsedPayload
	err := env.DecodePayload(&out)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
}

func TestEventEnvelope_ToMessage(t *testing.T) {
	env, err := NewEventEnvelope("molecule.rejected", "molparse-api", MoleculeRejectedPayload{
		SMILES:    "C(C",
		ErrorKind: "syntax",
		ErrorCode: "SMI_102",
		Column:    1,
	})
	require.NoError(t, err)
	env.TraceID = "trace-123"

	msg, err := env.ToMessage(TopicMoleculeRejected)
	require.NoError(t, err)

	assert.Equal(t, TopicMoleculeRejected, msg.Topic)
	assert.Equal(t, []byte(env.EventID), msg.Key)
	assert.Equal(t, "molecule.rejected", msg.Headers["event_type"])
	assert.Equal(t, "trace-123", msg.Headers["trace_id"])
	assert.Equal(t, env.Timestamp, msg.Timestamp)

	var roundTrip EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &roundTrip))
	assert.Equal(t, env.EventID, roundTrip.EventID)
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := NewEventEnvelope("molecule.deleted", "molparse-api", MoleculeDeletedPayload{
		MoleculeID: "m-1",
		DeletedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	pm, err := env.ToMessage(TopicMoleculeDeleted)
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(&Message{Topic: pm.Topic, Value: pm.Value})
	require.NoError(t, err)
	assert.Equal(t, env.EventID, decoded.EventID)

	var payload MoleculeDeletedPayload
	require.NoError(t, decoded.DecodePayload(&payload))
	assert.Equal(t, "m-1", payload.MoleculeID)
}

func TestDecodeEnvelope_Invalid(t *testing.T) {
	_, err := DecodeEnvelope(&Message{})
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))

	_, err = DecodeEnvelope(&Message{Value: []byte("not json")})
	assert.Equal(t, errors.ErrCodeSerialization, errors.GetCode(err))
}
