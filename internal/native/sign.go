package native

import (
	"crypto/ed25519"
	"crypto/rand"
)

// SignKeypair writes a fresh Ed25519 key pair; sk is seed||pk.
func SignKeypair(pk, sk []byte) int {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return ErrRandom
	}
	copy(pk, pub)
	copy(sk, priv)
	zeroSlice(priv)
	return OK
}

// SignSeedKeypair derives an Ed25519 key pair from a 32-byte seed.
func SignSeedKeypair(pk, sk, seed []byte) int {
	priv := ed25519.NewKeyFromSeed(seed)
	copy(sk, priv)
	copy(pk, priv[32:])
	zeroSlice(priv)
	return OK
}

// Sign writes sig||m into sm.
func Sign(sm, m, sk []byte) int {
	sig := ed25519.Sign(ed25519.PrivateKey(sk), m)
	copy(sm, sig)
	copy(sm[ed25519.SignatureSize:], m)
	return OK
}

// SignOpen verifies sm and writes the message into m.
func SignOpen(m, sm, pk []byte) int {
	sig, msg := sm[:ed25519.SignatureSize], sm[ed25519.SignatureSize:]
	if !ed25519.Verify(ed25519.PublicKey(pk), msg, sig) {
		return Fail
	}
	copy(m, msg)
	return OK
}

// SignDetached writes the signature of m.
func SignDetached(sig, m, sk []byte) int {
	copy(sig, ed25519.Sign(ed25519.PrivateKey(sk), m))
	return OK
}

// SignVerifyDetached verifies sig over m.
func SignVerifyDetached(sig, m, pk []byte) int {
	if !ed25519.Verify(ed25519.PublicKey(pk), m, sig) {
		return Fail
	}
	return OK
}

// SignEd25519SkToPk extracts the public half of sk.
func SignEd25519SkToPk(pk, sk []byte) int {
	copy(pk, sk[ed25519.SeedSize:])
	return OK
}
