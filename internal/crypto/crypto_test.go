package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plain = []byte("BMD animation payload, 32 bytes!")

func TestXORRoundTrip(t *testing.T) {
	key := []byte{0xd1, 0x73, 0x52, 0xf6, 0xd2, 0x9a, 0xcb, 0x27}

	enc, err := EncryptXOR(plain, key)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(enc, plain))

	dec, err := DecryptXOR(enc, key)
	require.NoError(t, err)
	assert.Equal(t, plain, dec)
}

func TestXORChain(t *testing.T) {
	// First byte: (0x00 ^ 0x00) - 0x5E; second uses chain 0x00 + 0x3D.
	out, err := DecryptXOR([]byte{0x00, 0x3D}, []byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA2, 0x00}, out)
}

func TestLEARoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x0f, 0x1e, 0x2d, 0x3c}, 8)
	c, err := NewLEA(key)
	require.NoError(t, err)

	enc, err := c.Encrypt(plain)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(enc, plain))

	dec, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, plain, dec)
}

func TestKeyErrors(t *testing.T) {
	_, err := DecryptXOR(plain, nil)
	assert.ErrorIs(t, err, ErrNoKey)

	_, err = NewLEA(nil)
	assert.ErrorIs(t, err, ErrNoKey)

	_, err = NewLEA(make([]byte, 16))
	assert.ErrorContains(t, err, "32 bytes")

	c, err := NewLEA(make([]byte, 32))
	require.NoError(t, err)
	_, err = c.Decrypt(make([]byte, 15))
	assert.ErrorContains(t, err, "not a multiple")
}
