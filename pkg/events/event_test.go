package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	e := New(QuestionSaved, 42, map[string]interface{}{"saved": float64(3)})

	data, err := Marshal(e)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, e.ID, back.EventID())
	assert.Equal(t, QuestionSaved, back.EventType())
	assert.Equal(t, int64(42), back.ChatID())
	assert.Equal(t, float64(3), back.Payload()["saved"])
	assert.True(t, e.Timestamp().Equal(back.Timestamp()))
}

func TestNewDefaultsPayload(t *testing.T) {
	e := New(SessionReset, 1, nil)

	assert.NotNil(t, e.Payload())
	assert.NotEmpty(t, e.EventID())
}
