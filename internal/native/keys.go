package native

import "sodiumbridge/internal/util/memzero"

// key32 copies b into a fixed array. Call wipe when done.
type key32 [32]byte

func toKey(b []byte) *key32 {
	var k key32
	copy(k[:], b)
	return &k
}

func (k *key32) wipe() { memzero.Zero(k[:]) }

func (k *key32) array() *[32]byte { return (*[32]byte)(k) }

func nonce24(b []byte) *[24]byte {
	var n [24]byte
	copy(n[:], b)
	return &n
}
