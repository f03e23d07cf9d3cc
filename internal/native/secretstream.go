package native

import (
	"crypto/subtle"
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/poly1305"

	"sodiumbridge/internal/util/memzero"
)

// crypto_secretstream_xchacha20poly1305 sizes and tags.
const (
	SecretStreamKeyBytes    = 32
	SecretStreamHeaderBytes = 24
	SecretStreamABytes      = 1 + poly1305.TagSize
	SecretStreamStateBytes  = 52

	SecretStreamTagMessage = 0x00
	SecretStreamTagPush    = 0x01
	SecretStreamTagRekey   = 0x02
	SecretStreamTagFinal   = SecretStreamTagPush | SecretStreamTagRekey
)

// State layout: key[32] || counter[4] || inonce[8] || pad[8]. The ChaCha20
// nonce is counter||inonce.
const (
	ssKeyEnd    = 32
	ssCounterAt = 32
	ssINonceAt  = 36
	ssNonceEnd  = 44

	ssINonceBytes = ssNonceEnd - ssINonceAt
	ssBlockBytes  = 64
)

var ssPad0 [16]byte

// SecretStreamInitPush starts a stream under key, writing a fresh random
// header and the initial state.
func SecretStreamInitPush(state, header, key []byte) int {
	if len(header) != SecretStreamHeaderBytes {
		return ErrParameter
	}
	if rc := RandomBytes(header); rc != OK {
		return rc
	}
	return SecretStreamInitPull(state, header, key)
}

// SecretStreamInitPull writes the state that decrypts the stream started
// with header under key.
func SecretStreamInitPull(state, header, key []byte) int {
	if len(state) != SecretStreamStateBytes || len(header) != SecretStreamHeaderBytes || len(key) != SecretStreamKeyBytes {
		return ErrParameter
	}
	k, err := chacha20.HChaCha20(key, header[:16])
	if err != nil {
		return ErrParameter
	}
	copy(state[:ssKeyEnd], k)
	memzero.Zero(k)
	ssResetCounter(state)
	copy(state[ssINonceAt:ssNonceEnd], header[16:])
	clear(state[ssNonceEnd:])
	return OK
}

// SecretStreamPush encrypts m with additional data ad and tag into c, which
// must be len(m)+SecretStreamABytes long, and advances state in place.
func SecretStreamPush(state, c, m, ad []byte, tag byte) int {
	if len(state) != SecretStreamStateBytes || len(c) != len(m)+SecretStreamABytes {
		return ErrParameter
	}
	s, mac, rc := ssBegin(state, ad)
	if rc != OK {
		return rc
	}

	var block [ssBlockBytes]byte
	block[0] = tag
	s.XORKeyStream(block[:], block[:])
	mac.Write(block[:])
	c[0] = block[0]
	memzero.Zero(block[:])

	body := c[1 : 1+len(m)]
	s.XORKeyStream(body, m)
	sum := ssFinish(mac, body, ad)
	copy(c[1+len(m):], sum[:])

	ssAdvance(state, sum[:], tag)
	memzero.Zero(sum[:])
	return OK
}

// SecretStreamPull verifies and decrypts c with additional data ad into m,
// which must be len(c)-SecretStreamABytes long, returning the message tag.
// The state advances only when authentication succeeds.
func SecretStreamPull(state, m []byte, tag *byte, c, ad []byte) int {
	if len(state) != SecretStreamStateBytes || len(c) < SecretStreamABytes || len(m) != len(c)-SecretStreamABytes {
		return ErrParameter
	}
	s, mac, rc := ssBegin(state, ad)
	if rc != OK {
		return rc
	}

	var block [ssBlockBytes]byte
	block[0] = c[0]
	s.XORKeyStream(block[:], block[:])
	t := block[0]
	block[0] = c[0]
	mac.Write(block[:])
	memzero.Zero(block[:])

	body := c[1 : 1+len(m)]
	sum := ssFinish(mac, body, ad)
	defer memzero.Zero(sum[:])
	if subtle.ConstantTimeCompare(sum[:], c[1+len(m):]) != 1 {
		return Fail
	}
	s.XORKeyStream(m, body)
	*tag = t

	ssAdvance(state, sum[:], t)
	return OK
}

// ssBegin keys ChaCha20 and Poly1305 for the next message. The Poly1305 key
// is block 0 of the keystream; the returned cipher is positioned at block 1.
func ssBegin(state, ad []byte) (*chacha20.Cipher, *poly1305.MAC, int) {
	s, err := chacha20.NewUnauthenticatedCipher(state[:ssKeyEnd], state[ssCounterAt:ssNonceEnd])
	if err != nil {
		return nil, nil, ErrParameter
	}
	var block [ssBlockBytes]byte
	s.XORKeyStream(block[:], block[:])
	var key [32]byte
	copy(key[:], block[:32])
	mac := poly1305.New(&key)
	memzero.Zero(key[:])
	memzero.Zero(block[:])

	mac.Write(ad)
	mac.Write(ssPad0[:(16-len(ad)%16)%16])
	return s, mac, OK
}

// ssFinish absorbs the ciphertext body and both lengths and returns the tag.
func ssFinish(mac *poly1305.MAC, body, ad []byte) [poly1305.TagSize]byte {
	mac.Write(body)
	mac.Write(ssPad0[:(16-(ssBlockBytes+len(body))%16)%16])
	var lens [16]byte
	binary.LittleEndian.PutUint64(lens[:8], uint64(len(ad)))
	binary.LittleEndian.PutUint64(lens[8:], uint64(ssBlockBytes+len(body)))
	mac.Write(lens[:])
	var sum [poly1305.TagSize]byte
	mac.Sum(sum[:0])
	return sum
}

// ssAdvance folds the tag into the inner nonce, bumps the counter and rekeys
// when asked to or when the counter wraps.
func ssAdvance(state, sum []byte, tag byte) {
	for i := 0; i < ssINonceBytes; i++ {
		state[ssINonceAt+i] ^= sum[i]
	}
	ctr := binary.LittleEndian.Uint32(state[ssCounterAt:ssINonceAt]) + 1
	binary.LittleEndian.PutUint32(state[ssCounterAt:ssINonceAt], ctr)
	if tag&SecretStreamTagRekey != 0 || ctr == 0 {
		ssRekey(state)
	}
}

// ssRekey replaces the key and inner nonce with keystream derived
// from them, and resets the counter.
func ssRekey(state []byte) int {
	if len(state) != SecretStreamStateBytes {
		return ErrParameter
	}
	var next [ssKeyEnd + ssINonceBytes]byte
	defer memzero.Zero(next[:])
	copy(next[:ssKeyEnd], state[:ssKeyEnd])
	copy(next[ssKeyEnd:], state[ssINonceAt:ssNonceEnd])
	s, err := chacha20.NewUnauthenticatedCipher(state[:ssKeyEnd], state[ssCounterAt:ssNonceEnd])
	if err != nil {
		return ErrParameter
	}
	s.XORKeyStream(next[:], next[:])
	copy(state[:ssKeyEnd], next[:ssKeyEnd])
	copy(state[ssINonceAt:ssNonceEnd], next[ssKeyEnd:])
	ssResetCounter(state)
	return OK
}

func ssResetCounter(state []byte) {
	binary.LittleEndian.PutUint32(state[ssCounterAt:ssINonceAt], 1)
}
