package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrocraft-network/stats-api/internal/events"
)

func TestDecodeEvent(t *testing.T) {
	body := []byte(`{
		"id": "e-1",
		"type": "DESTROYABLE_DESTROY",
		"playerId": "p1",
		"playerName": "Alpha",
		"trackingStats": true,
		"blockCount": 12
	}`)

	event, err := decodeEvent(body)
	require.NoError(t, err)
	assert.Equal(t, events.Event{
		ID:            "e-1",
		Type:          events.DestroyableDestroy,
		PlayerID:      "p1",
		PlayerName:    "Alpha",
		TrackingStats: true,
		BlockCount:    12,
	}, event)
}

func TestDecodeEventAssignsMissingID(t *testing.T) {
	event, err := decodeEvent([]byte(`{"type":"KILL","playerId":"p1","playerName":"Alpha","trackingStats":true}`))
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := decodeEvent([]byte(`{"type":`))
	assert.Error(t, err)

	_, err = decodeEvent([]byte(`{"playerId":"p1"}`))
	assert.Error(t, err, "missing type must not pass validation")

	_, err = decodeEvent([]byte(`{"type":"KILL"}`))
	assert.Error(t, err, "missing player id must not pass validation")
}

func TestNewConsumerValidatesConfig(t *testing.T) {
	out := make(chan events.Event)

	_, err := NewConsumer(Config{Topic: "events"}, out, nil)
	assert.Error(t, err)

	_, err = NewConsumer(Config{Brokers: []string{"localhost:9092"}}, out, nil)
	assert.Error(t, err)
}
