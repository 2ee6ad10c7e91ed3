package crypto

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// LEABlockSize is the LEA block length in bytes.
const LEABlockSize = 16

// leaDelta holds the LEA key-schedule constants.
var leaDelta = [8]uint32{
	0xc3efe9db, 0x44626b02, 0x79e27c8a, 0x78df30ec,
	0x715ea49e, 0xc785da0a, 0xe04ef22a, 0xe5c40957,
}

// LEA is an expanded LEA-256 key.
type LEA struct {
	rk [192]uint32
}

// NewLEA expands a 32-byte key.
func NewLEA(key []byte) (*LEA, error) {
	if len(key) == 0 {
		return nil, ErrNoKey
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("crypto: LEA-256 key must be 32 bytes, got %d", len(key))
	}

	var t [8]uint32
	for i := range t {
		t[i] = binary.LittleEndian.Uint32(key[i*4:])
	}

	c := &LEA{}
	shifts := [6]int{1, 3, 6, 11, 13, 17}
	for i := uint32(0); i < 32; i++ {
		d := leaDelta[i&7]
		s := (i * 6) & 7
		for j := uint32(0); j < 6; j++ {
			idx := (s + j) & 7
			t[idx] = bits.RotateLeft32(t[idx]+bits.RotateLeft32(d, int(i+j)), shifts[j])
			c.rk[i*6+j] = t[idx]
		}
	}
	return c, nil
}

func (c *LEA) checkLen(data []byte) error {
	if len(data)%LEABlockSize != 0 {
		return fmt.Errorf("crypto: LEA input of %d bytes is not a multiple of %d", len(data), LEABlockSize)
	}
	return nil
}

// Decrypt decrypts data in ECB mode.
func (c *LEA) Decrypt(data []byte) ([]byte, error) {
	if err := c.checkLen(data); err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	for off := 0; off < len(data); off += LEABlockSize {
		s0, s1, s2, s3 := load(data[off:])
		for r := 31; r >= 0; r-- {
			k := c.rk[r*6 : r*6+6]
			t0 := s3
			t1 := (bits.RotateLeft32(s0, -9) - (t0 ^ k[0])) ^ k[1]
			t2 := (bits.RotateLeft32(s1, 5) - (t1 ^ k[2])) ^ k[3]
			t3 := (bits.RotateLeft32(s2, 3) - (t2 ^ k[4])) ^ k[5]
			s0, s1, s2, s3 = t0, t1, t2, t3
		}
		store(out[off:], s0, s1, s2, s3)
	}
	return out, nil
}

// Encrypt encrypts data in ECB mode.
func (c *LEA) Encrypt(data []byte) ([]byte, error) {
	if err := c.checkLen(data); err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	for off := 0; off < len(data); off += LEABlockSize {
		s0, s1, s2, s3 := load(data[off:])
		for r := 0; r < 32; r++ {
			k := c.rk[r*6 : r*6+6]
			n0 := bits.RotateLeft32((s0^k[0])+(s1^k[1]), 9)
			n1 := bits.RotateLeft32((s1^k[2])+(s2^k[3]), -5)
			n2 := bits.RotateLeft32((s2^k[4])+(s3^k[5]), -3)
			s0, s1, s2, s3 = n0, n1, n2, s0
		}
		store(out[off:], s0, s1, s2, s3)
	}
	return out, nil
}

func load(b []byte) (uint32, uint32, uint32, uint32) {
	return binary.LittleEndian.Uint32(b[0:]), binary.LittleEndian.Uint32(b[4:]),
		binary.LittleEndian.Uint32(b[8:]), binary.LittleEndian.Uint32(b[12:])
}

func store(b []byte, s0, s1, s2, s3 uint32) {
	binary.LittleEndian.PutUint32(b[0:], s0)
	binary.LittleEndian.PutUint32(b[4:], s1)
	binary.LittleEndian.PutUint32(b[8:], s2)
	binary.LittleEndian.PutUint32(b[12:], s3)
}
