package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_ComparePassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery-staple")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := ComparePassword("correct-horse-battery-staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestComparePassword_RejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery-staple")
	require.NoError(t, err)

	ok, err := ComparePassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePassword_RejectsMalformedHash(t *testing.T) {
	_, err := ComparePassword("anything", "not-a-valid-hash")
	assert.Error(t, err)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	hash1, err := HashPassword("same-password")
	require.NoError(t, err)
	hash2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "two hashes of the same password must use independent salts")
}
