package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkTokenRoundtrip(t *testing.T) {
	s := NewService("secret", time.Hour)

	token, err := s.GenerateLink("arena-1", "p1")
	require.NoError(t, err)

	claims, err := s.VerifyLink(token)
	require.NoError(t, err)
	assert.Equal(t, "arena-1", claims.GameID)
	assert.Equal(t, "p1", claims.PlayerID)
}

func TestGameTokenRoundtrip(t *testing.T) {
	s := NewService("secret", time.Hour)

	token, err := s.GenerateGame("arena-1")
	require.NoError(t, err)

	claims, err := s.VerifyGame(token)
	require.NoError(t, err)
	assert.Equal(t, "arena-1", claims.GameID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewService("secret", time.Hour).GenerateGame("arena-1")
	require.NoError(t, err)

	_, err = NewService("other", time.Hour).VerifyGame(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := NewService("secret", -time.Hour).GenerateLink("arena-1", "p1")
	require.NoError(t, err)

	_, err = NewService("secret", time.Hour).VerifyLink(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewService("secret", time.Hour).VerifyGame("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
