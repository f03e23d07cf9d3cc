package native

import (
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/salsa20"
)

// Stream writes len(c) bytes of XSalsa20 keystream.
func Stream(c, n, k []byte) int {
	clear(c)
	return StreamXor(c, c, n, k)
}

// StreamXor writes m XOR XSalsa20(n, k) into c.
func StreamXor(c, m, n, k []byte) int {
	key := toKey(k)
	defer key.wipe()
	salsa20.XORKeyStream(c[:len(m)], m, n, key.array())
	return OK
}

// StreamChaCha20IETFXor writes m XOR ChaCha20(n, k) with a 12-byte nonce and
// a zero initial counter.
func StreamChaCha20IETFXor(c, m, n, k []byte) int {
	s, err := chacha20.NewUnauthenticatedCipher(k, n)
	if err != nil {
		return ErrParameter
	}
	s.XORKeyStream(c[:len(m)], m)
	return OK
}
