package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "tradedocs-test",
	})
}

func newTestInput() TokenSubject {
	return TokenSubject{
		UserID:   uuid.New(),
		Username: "maker.one",
		Roles:    []string{"maker"},
	}
}

func TestNewJWTService_RefreshSecretFallback(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, []byte("only-secret"), svc.refreshSecret)
}

func TestIssuePair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.IssuePair(input)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.AccessTokenExpiresAt, time.Second)

	claims, err := svc.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, "maker.one", claims.Username)
	assert.Equal(t, []string{"maker"}, claims.Roles)
	assert.False(t, claims.Admin)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, id)

	refresh, err := svc.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Roles, "refresh tokens carry no roles")
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestValidate_WrongTokenType(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.IssuePair(newTestInput())
	require.NoError(t, err)

	// each token is signed with its own secret so cross-use fails before the type check
	_, err = svc.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	shared := NewJWTService(config.JWTConfig{
		Secret:                 "same-secret-for-both-tokens-32chars",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "tradedocs-test",
	})
	pair, err = shared.IssuePair(newTestInput())
	require.NoError(t, err)
	_, err = shared.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidate_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "tradedocs-test",
	})
	pair, err := svc.IssuePair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_Tampered(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name  string
		token func() string
	}{
		{"garbage", func() string { return "not.a.token" }},
		{"other secret", func() string {
			other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-chars!!", AccessTokenExpiration: time.Minute, Issuer: "tradedocs-test"})
			pair, _ := other.IssuePair(newTestInput())
			return pair.AccessToken
		}},
		{"other issuer", func() string {
			other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", AccessTokenExpiration: time.Minute, Issuer: "someone-else"})
			pair, _ := other.IssuePair(newTestInput())
			return pair.AccessToken
		}},
		{"none algorithm", func() string {
			token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.NewString(), TokenType: TokenTypeAccess})
			s, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
			return s
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseAccess(tt.token())
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestClaims_Helpers(t *testing.T) {
	claims := &Claims{Roles: []string{"checker"}}
	assert.True(t, claims.HasRole("checker"))
	assert.False(t, claims.HasRole("maker"))
	assert.Zero(t, claims.RemainingTTL())
	assert.True(t, claims.IssuedAtTime().IsZero())

	admin := &Claims{Admin: true}
	assert.True(t, admin.HasRole("maker"))

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	assert.InDelta(t, time.Hour.Seconds(), claims.RemainingTTL().Seconds(), 2)
}
