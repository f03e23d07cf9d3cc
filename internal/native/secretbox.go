package native

import (
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/secretbox"
)

// SecretboxEasy writes MAC||ciphertext of m into c (len(m)+16 bytes).
func SecretboxEasy(c, m, n, k []byte) int {
	key := toKey(k)
	defer key.wipe()
	copy(c, secretbox.Seal(c[:0], m, nonce24(n), key.array()))
	return OK
}

// SecretboxOpenEasy verifies c and writes the plaintext into m.
func SecretboxOpenEasy(m, c, n, k []byte) int {
	key := toKey(k)
	defer key.wipe()
	if _, ok := secretbox.Open(m[:0], c, nonce24(n), key.array()); !ok {
		return Fail
	}
	return OK
}

// AEADEncrypt seals m with ChaCha20-Poly1305. A 24-byte npub selects the
// XChaCha20 variant.
func AEADEncrypt(c, m, ad, npub, k []byte) int {
	aead, err := newAEAD(k, len(npub))
	if err != nil {
		return ErrParameter
	}
	copy(c, aead.Seal(c[:0], npub, m, ad))
	return OK
}

// AEADDecrypt verifies c and writes the plaintext into m.
func AEADDecrypt(m, c, ad, npub, k []byte) int {
	aead, err := newAEAD(k, len(npub))
	if err != nil {
		return ErrParameter
	}
	if _, err := aead.Open(m[:0], npub, c, ad); err != nil {
		return Fail
	}
	return OK
}

type sealer interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

func newAEAD(k []byte, nonceLen int) (sealer, error) {
	if nonceLen == chacha20poly1305.NonceSizeX {
		return chacha20poly1305.NewX(k)
	}
	return chacha20poly1305.New(k)
}
