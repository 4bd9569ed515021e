package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	e, err := NewEncryptor("test-key")
	require.NoError(t, err)

	plain := []byte(`{"trip":"kyoto"}`)
	sealed, err := e.EncryptBytes(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	out, err := e.DecryptBytes(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	e1, err := NewEncryptor("key-one")
	require.NoError(t, err)
	e2, err := NewEncryptor("key-two")
	require.NoError(t, err)

	sealed, err := e1.EncryptBytes([]byte("secret"))
	require.NoError(t, err)

	_, err = e2.DecryptBytes(sealed)
	assert.Error(t, err)
}
