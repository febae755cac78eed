package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the suite fast
var testParams = Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt, DefaultParams)
	key2 := DeriveKey(password, salt, DefaultParams)

	require.Len(t, key1, int(DefaultParams.KeyLen))
	assert.Equal(t, key1, key2)
	assert.NotEqual(t, make([]byte, DefaultParams.KeyLen), key1)

	other := DeriveKey([]byte("secret-passwore"), salt, DefaultParams)
	assert.NotEqual(t, key1, other)
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"), testParams)
	key2 := DeriveKey(password, []byte("salt-2"), testParams)

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("correct horse", testParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.NotContains(t, h, "correct horse")

	ok, err := VerifyPassword("correct horse", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong horse", h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("same", testParams)
	require.NoError(t, err)
	h2, err := HashPassword("same", testParams)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, enc := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=1$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$bogus$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	} {
		_, err := VerifyPassword("x", enc)
		assert.ErrorIs(t, err, ErrMalformedHash, enc)
	}
}

func TestNewToken(t *testing.T) {
	a, err := NewToken(32)
	require.NoError(t, err)
	b, err := NewToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
