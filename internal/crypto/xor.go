// Package crypto implements the two BMD container ciphers: chained XOR
// (version 12) and LEA-256 ECB (version 15). Key material is supplied by the
// caller.
package crypto

import "errors"

// ErrNoKey is returned when a cipher is asked to run without key material.
var ErrNoKey = errors.New("crypto: missing key")

const (
	xorChainSeed = 0x5E
	xorChainStep = 0x3D
)

// DecryptXOR decrypts BMD v12 data using chained XOR with a repeating key.
//
//	out[i] = ((data[i] ^ key[i%len(key)]) - chain) & 0xFF
//	chain  = (data[i] + 0x3D) & 0xFF
func DecryptXOR(data, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrNoKey
	}
	out := make([]byte, len(data))
	chain := byte(xorChainSeed)
	for i, b := range data {
		out[i] = (b ^ key[i%len(key)]) - chain
		chain = b + xorChainStep
	}
	return out, nil
}

// EncryptXOR is the inverse of DecryptXOR.
func EncryptXOR(data, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrNoKey
	}
	out := make([]byte, len(data))
	chain := byte(xorChainSeed)
	for i, p := range data {
		b := (p + chain) ^ key[i%len(key)]
		out[i] = b
		chain = b + xorChainStep
	}
	return out, nil
}
