package native

import (
	"crypto/rand"
	"crypto/sha512"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"sodiumbridge/internal/util/memzero"
)

// BoxKeypair writes a fresh Curve25519 key pair.
func BoxKeypair(pk, sk []byte) int {
	if rc := RandomBytes(sk[:32]); rc != OK {
		return rc
	}
	return scalarBase(pk, sk)
}

// BoxSeedKeypair derives sk from SHA-512(seed)[:32].
func BoxSeedKeypair(pk, sk, seed []byte) int {
	h := sha512.Sum512(seed)
	defer memzero.Zero(h[:])
	copy(sk, h[:32])
	return scalarBase(pk, sk)
}

// BoxEasy encrypts m for pk, authenticated by sk.
func BoxEasy(c, m, n, pk, sk []byte) int {
	shared, rc := boxShared(pk, sk)
	if rc != OK {
		return rc
	}
	defer shared.wipe()
	copy(c, box.SealAfterPrecomputation(c[:0], m, nonce24(n), shared.array()))
	return OK
}

// BoxOpenEasy verifies c from pk and writes the plaintext into m.
func BoxOpenEasy(m, c, n, pk, sk []byte) int {
	shared, rc := boxShared(pk, sk)
	if rc != OK {
		return rc
	}
	defer shared.wipe()
	if _, ok := box.OpenAfterPrecomputation(m[:0], c, nonce24(n), shared.array()); !ok {
		return Fail
	}
	return OK
}

// BoxSeal encrypts m for pk under a fresh ephemeral key.
func BoxSeal(c, m, pk []byte) int {
	if !validPoint(pk) {
		return ErrInvalidPoint
	}
	peer := toKey(pk)
	out, err := box.SealAnonymous(c[:0], m, peer.array(), rand.Reader)
	if err != nil {
		return ErrRandom
	}
	copy(c, out)
	return OK
}

// BoxSealOpen opens a sealed box addressed to pk.
func BoxSealOpen(m, c, pk, sk []byte) int {
	if !validPoint(pk) {
		return ErrInvalidPoint
	}
	priv := toKey(sk)
	defer priv.wipe()
	if _, ok := box.OpenAnonymous(m[:0], c, toKey(pk).array(), priv.array()); !ok {
		return Fail
	}
	return OK
}

func boxShared(pk, sk []byte) (*key32, int) {
	if !validPoint(pk) {
		return nil, ErrInvalidPoint
	}
	var shared key32
	priv := toKey(sk)
	defer priv.wipe()
	box.Precompute(shared.array(), toKey(pk).array(), priv.array())
	return &shared, OK
}

// validPoint rejects points whose shared secret with any scalar is zero.
func validPoint(pk []byte) bool {
	var nine [32]byte
	nine[0] = 9
	out, err := curve25519.X25519(nine[:], pk)
	if err != nil {
		return false
	}
	memzero.Zero(out)
	return true
}

func scalarBase(pk, sk []byte) int {
	pb, err := curve25519.X25519(sk, curve25519.Basepoint)
	if err != nil {
		return Fail
	}
	copy(pk, pb)
	return OK
}
