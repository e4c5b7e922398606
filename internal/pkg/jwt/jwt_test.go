package jwt

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", nil)
	assert.Error(t, err)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Now())
	svc, err := NewJWTService("test-secret", "1h", clock)
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateAccessToken("emp-alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, clock.Now().Add(time.Hour).Unix(), expiresAt)

	parsed, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := parsed.AsMap(t.Context())
	require.NoError(t, err)

	employeeID, err := EmployeeID(claims)
	require.NoError(t, err)
	assert.Equal(t, "emp-alice", employeeID)
}

func TestEmployeeID_RejectsForeignClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
	}{
		{name: "missing type", claims: map[string]interface{}{ClaimEmployeeID: "emp-alice"}},
		{name: "refresh token", claims: map[string]interface{}{ClaimEmployeeID: "emp-alice", ClaimType: "refresh"}},
		{name: "missing employee", claims: map[string]interface{}{ClaimType: TokenTypeAccess}},
		{name: "empty employee", claims: map[string]interface{}{ClaimEmployeeID: "", ClaimType: TokenTypeAccess}},
		{name: "non-string employee", claims: map[string]interface{}{ClaimEmployeeID: 42, ClaimType: TokenTypeAccess}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EmployeeID(tt.claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRevokeToken(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Now())
	svc, err := NewJWTService("test-secret", "1h", clock)
	require.NoError(t, err)

	first, _, err := svc.GenerateAccessToken("emp-alice")
	require.NoError(t, err)
	second, _, err := svc.GenerateAccessToken("emp-bob")
	require.NoError(t, err)

	svc.RevokeToken(first)
	assert.True(t, svc.IsTokenRevoked(first))
	assert.False(t, svc.IsTokenRevoked(second))
}

func TestPruneRevokedTokens(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Now())
	svc, err := NewJWTService("test-secret", "1m", clock)
	require.NoError(t, err)

	svc.RevokeToken("not-a-jwt")
	require.True(t, svc.IsTokenRevoked("not-a-jwt"))
	assert.Equal(t, 0, svc.PruneRevokedTokens())

	clock.Advance(2 * time.Minute)
	svc.RevokeToken("another")
	assert.Equal(t, 1, svc.PruneRevokedTokens())
	assert.False(t, svc.IsTokenRevoked("not-a-jwt"))
	assert.True(t, svc.IsTokenRevoked("another"))
}
