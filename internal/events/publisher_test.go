package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/ringmaster/internal/config"
)

func TestNewNATSUnconfiguredIsNop(t *testing.T) {
	p, err := NewNATS(config.EventsConfig{})
	require.NoError(t, err)
	assert.Equal(t, Nop(), p)
}

func TestNopPublisherIsSafe(t *testing.T) {
	p := Nop()
	p.Publish(SubjectMatchStarted, MatchStarted{MatchID: "m1", Timestamp: 1})
	p.Publish(SubjectTournamentCompleted, nil)
	p.Close()
}

func TestMarshalPayloadRejectsUnencodable(t *testing.T) {
	_, ok := marshalPayload(SubjectMatchEnded, make(chan int))
	assert.False(t, ok)

	data, ok := marshalPayload(SubjectMatchEnded, MatchEnded{MatchID: "m1"})
	require.True(t, ok)
	assert.JSONEq(t, `{"matchId":"m1","winner":{"players":null}}`, string(data))
}
