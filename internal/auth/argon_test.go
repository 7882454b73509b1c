package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheapParams keep tests fast.
var cheapParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(cheapParams)

	encoded, err := h.Hash("demo123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := h.Verify(encoded, "demo123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(encoded, "demo124")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltsDiffer(t *testing.T) {
	h := NewHasher(cheapParams)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_RejectsBadInput(t *testing.T) {
	h := NewHasher(cheapParams)

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = h.Hash(strings.Repeat("x", maxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	h := NewHasher(cheapParams)

	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$aGFzaA",
	} {
		ok, err := h.Verify(encoded, "anything")
		assert.NoError(t, err, encoded)
		assert.False(t, ok, encoded)
	}
}

func TestHasher_VerifyUsesStoredParams(t *testing.T) {
	encoded, err := NewHasher(cheapParams).Hash("demo123")
	require.NoError(t, err)

	other := NewHasher(HashParams{Memory: 2048, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	ok, err := other.Verify(encoded, "demo123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, other.NeedsRehash(encoded))
	assert.False(t, NewHasher(cheapParams).NeedsRehash(encoded))
	assert.True(t, other.NeedsRehash("garbage"))
}
