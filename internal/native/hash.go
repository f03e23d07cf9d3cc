package native

import (
	"crypto/sha512"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/poly1305"
)

// GenericHash writes BLAKE2b-len(out) of in, keyed when key is non-empty.
func GenericHash(out, in, key []byte) int {
	h, err := blake2b.New(len(out), key)
	if err != nil {
		return ErrParameter
	}
	h.Write(in)
	sum := h.Sum(nil)
	copy(out, sum)
	zeroSlice(sum)
	return OK
}

// HashSHA512 writes SHA-512(in).
func HashSHA512(out, in []byte) int {
	sum := sha512.Sum512(in)
	copy(out, sum[:])
	return OK
}

// OneTimeAuth writes the Poly1305 tag of m under k.
func OneTimeAuth(out, m, k []byte) int {
	key := toKey(k)
	defer key.wipe()
	var tag [16]byte
	poly1305.Sum(&tag, m, key.array())
	copy(out, tag[:])
	return OK
}

// OneTimeAuthVerify checks h against the Poly1305 tag of m.
func OneTimeAuthVerify(h, m, k []byte) int {
	key := toKey(k)
	defer key.wipe()
	var tag [16]byte
	copy(tag[:], h)
	if !poly1305.Verify(&tag, m, key.array()) {
		return Fail
	}
	return OK
}
