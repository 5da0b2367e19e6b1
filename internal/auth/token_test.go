package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetledger/internal/config"
)

func setTestEnvs(t *testing.T) {
	t.Helper()
	config.Envs = config.Config{
		JWTSecret:   "test-secret-at-least-this-long-for-hs256-xxxxxx",
		JWTIssuer:   "fleetledger-test",
		JWTAudience: "fleetledger-api-test",
		JWTTTL:      time.Hour,
	}
}

func TestIssueToken_ParseToken_RoundTrip(t *testing.T) {
	setTestEnvs(t)

	token, err := IssueToken("user-1", "ops@example.com", []string{"ADMIN", "FLEET_MANAGER"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, []string{"ADMIN", "FLEET_MANAGER"}, claims.Roles)
	assert.True(t, claims.HasRole("ADMIN"))
	assert.False(t, claims.HasRole("FINANCE_OWNER"))
}

func TestParseToken_RejectsExpired(t *testing.T) {
	setTestEnvs(t)
	config.Envs.JWTTTL = -time.Hour

	token, err := IssueToken("user-1", "ops@example.com", []string{"ADMIN"})
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	setTestEnvs(t)
	token, err := IssueToken("user-1", "ops@example.com", []string{"ADMIN"})
	require.NoError(t, err)

	config.Envs.JWTSecret = "a-completely-different-secret-value-xxxxxxxxxx"
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_RejectsWrongAudience(t *testing.T) {
	setTestEnvs(t)
	token, err := IssueToken("user-1", "ops@example.com", []string{"ADMIN"})
	require.NoError(t, err)

	config.Envs.JWTAudience = "some-other-audience"
	_, err = ParseToken(token)
	assert.Error(t, err)
}
