package client

import (
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return signed
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, IsExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, IsExpired(signedToken(t, now.Add(-time.Hour)), now))
}

func TestIsExpiredFailsClosed(t *testing.T) {
	now := time.Now()

	assert.True(t, IsExpired("", now))
	assert.True(t, IsExpired("not-a-jwt", now))

	// A token without an exp claim counts as expired too.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"})
	signed, err := token.SignedString([]byte("any-secret"))
	require.NoError(t, err)
	assert.True(t, IsExpired(signed, now))
}

func TestMemoryTokenStoreRoundTrip(t *testing.T) {
	store := NewMemoryTokenStore()

	pair, err := store.Load()
	require.NoError(t, err)
	assert.True(t, pair.Empty())

	saved := Pair{AccessToken: "access", RefreshToken: "refresh"}
	require.NoError(t, store.Save(saved))

	pair, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, pair)

	require.NoError(t, store.Clear())
	pair, err = store.Load()
	require.NoError(t, err)
	assert.True(t, pair.Empty())
}

func TestMemoryTokenStoreRejectsPartialPair(t *testing.T) {
	store := NewMemoryTokenStore()

	assert.Error(t, store.Save(Pair{AccessToken: "access"}))
	assert.Error(t, store.Save(Pair{RefreshToken: "refresh"}))
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileTokenStore(path)

	pair, err := store.Load()
	require.NoError(t, err)
	assert.True(t, pair.Empty())

	saved := Pair{AccessToken: "access", RefreshToken: "refresh"}
	require.NoError(t, store.Save(saved))

	// A fresh store over the same path sees the saved pair.
	pair, err = NewFileTokenStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, saved, pair)

	require.NoError(t, store.Clear())
	pair, err = store.Load()
	require.NoError(t, err)
	assert.True(t, pair.Empty())

	// Clearing an already empty store is fine.
	require.NoError(t, store.Clear())
}
