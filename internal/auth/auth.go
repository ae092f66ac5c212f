package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails signature or expiry
// checks. Token failures abort the requesting operation or connection only;
// they are never fatal to the process.
var ErrInvalidToken = errors.New("invalid or expired token")

// LinkClaims is the payload of a link token: it ties an external player
// identifier to a game.
type LinkClaims struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	jwt.RegisteredClaims
}

// GameClaims is the payload of a connection auth token presented during the
// WebSocket handshake.
type GameClaims struct {
	GameID string `json:"gameId"`
	jwt.RegisteredClaims
}

// Service verifies and mints tokens with the shared session secret. The same
// secret covers link tokens and connection tokens.
type Service struct {
	secret        []byte
	tokenDuration time.Duration
}

// NewService creates a new token service
func NewService(secret string, tokenDuration time.Duration) *Service {
	if tokenDuration == 0 {
		tokenDuration = 24 * time.Hour
	}
	return &Service{
		secret:        []byte(secret),
		tokenDuration: tokenDuration,
	}
}

// VerifyLink validates a link token and returns its claims
func (s *Service) VerifyLink(tokenString string) (*LinkClaims, error) {
	var claims LinkClaims
	if err := s.verify(tokenString, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// VerifyGame validates a connection auth token and returns its claims
func (s *Service) VerifyGame(tokenString string) (*GameClaims, error) {
	var claims GameClaims
	if err := s.verify(tokenString, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (s *Service) verify(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// GenerateLink mints a link token for a player
func (s *Service) GenerateLink(gameID, playerID string) (string, error) {
	claims := LinkClaims{
		GameID:   gameID,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// GenerateGame mints a connection auth token for the game runtime
func (s *Service) GenerateGame(gameID string) (string, error) {
	claims := GameClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
