package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiresAt(t *testing.T) {
	token, err := NewToken("42", time.Hour, "secret")
	require.NoError(t, err)

	exp, ok := ExpiresAt(token)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
	assert.False(t, Expired(token, time.Now()))
	assert.True(t, Expired(token, time.Now().Add(2*time.Hour)))
}

func TestExpiresAt_Opaque(t *testing.T) {
	_, ok := ExpiresAt("opaque-token")
	assert.False(t, ok)
	assert.False(t, Expired("opaque-token", time.Now()))
}

func TestExpired_AlreadyExpired(t *testing.T) {
	token, err := NewToken("42", -time.Minute, "secret")
	require.NoError(t, err)

	assert.True(t, Expired(token, time.Now()))
}
