package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkAssignsStableOrdinals(t *testing.T) {
	r := New()

	assert.Equal(t, 0, r.Link("p1"))
	assert.Equal(t, 1, r.Link("p2"))
	assert.Equal(t, 2, r.Link("p3"))
	assert.Equal(t, 3, r.Count())
}

func TestLinkIsIdempotent(t *testing.T) {
	r := New()

	first := r.Link("p1")
	r.Link("p2")
	again := r.Link("p1")

	assert.Equal(t, first, again, "re-linking must return the existing ordinal")
	assert.Equal(t, 2, r.Count(), "re-linking must not burn a new ordinal")
	assert.Equal(t, 2, r.Link("p3"))
}

func TestExists(t *testing.T) {
	r := New()
	r.Link("p1")

	assert.True(t, r.Exists("p1"))
	assert.False(t, r.Exists("p2"))
}

func TestFillDrainsInLinkOrder(t *testing.T) {
	r := New()
	for _, p := range []string{"p1", "p2", "p3", "p4"} {
		r.Link(p)
	}

	teams, err := r.Fill(2, 2)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, []string{"p1", "p2"}, teams[0].Players)
	assert.Equal(t, []string{"p3", "p4"}, teams[1].Players)
}

func TestFillNotEnoughPlayers(t *testing.T) {
	r := New()
	r.Link("p1")
	r.Link("p2")
	r.Link("p3")

	_, err := r.Fill(2, 2)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}
