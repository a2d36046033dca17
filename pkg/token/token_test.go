package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	signed, err := GenerateJWT("m1", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "m1", claims.MemberID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "m1", claims.Subject)
}

func TestValidateJWTRejects(t *testing.T) {
	expired, err := GenerateJWT("m1", "member", testSecret, -time.Minute)
	require.NoError(t, err)
	valid, err := GenerateJWT("m1", "member", testSecret, time.Hour)
	require.NoError(t, err)
	state, err := GenerateStateToken("m1", testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"empty token", "", testSecret},
		{"garbage", "not-a-jwt", testSecret},
		{"expired", expired, testSecret},
		{"wrong secret", valid, "other-secret"},
		{"state token used as session", state, testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestStateToken(t *testing.T) {
	state, err := GenerateStateToken("admin-1", testSecret, 10*time.Minute)
	require.NoError(t, err)

	claims, err := ValidateStateToken(state, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.MemberID)

	session, err := GenerateJWT("admin-1", "admin", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ValidateStateToken(session, testSecret)
	assert.Error(t, err)
}

func TestGenerateJWTRequiresInputs(t *testing.T) {
	_, err := GenerateJWT("", "member", testSecret, time.Hour)
	assert.Error(t, err)

	_, err = GenerateJWT("m1", "member", "", time.Hour)
	assert.Error(t, err)
}
