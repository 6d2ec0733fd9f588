package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("alice123456")
	require.NoError(t, err)
	require.NotEqual(t, "alice123456", hash)

	require.True(t, CheckPassword(hash, "alice123456"))
	require.False(t, CheckPassword(hash, "wrongpass"))
	require.False(t, CheckPassword("not-a-hash", "alice123456"))
}
