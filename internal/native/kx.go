package native

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"

	"sodiumbridge/internal/util/memzero"
)

// KXKeypair writes a fresh key-exchange key pair.
func KXKeypair(pk, sk []byte) int {
	if rc := RandomBytes(sk[:32]); rc != OK {
		return rc
	}
	return scalarBase(pk, sk)
}

// KXSeedKeypair derives sk from BLAKE2b-256(seed).
func KXSeedKeypair(pk, sk, seed []byte) int {
	h := blake2b.Sum256(seed)
	defer memzero.Zero(h[:])
	copy(sk, h[:])
	return scalarBase(pk, sk)
}

// KXClientSessionKeys derives the client's receive and transmit keys.
func KXClientSessionKeys(rx, tx, clientPK, clientSK, serverPK []byte) int {
	keys, rc := kxKeys(clientSK, serverPK, clientPK, serverPK)
	if rc != OK {
		return rc
	}
	defer memzero.Zero(keys[:])
	copy(rx, keys[:32])
	copy(tx, keys[32:])
	return OK
}

// KXServerSessionKeys derives the server's receive and transmit keys.
func KXServerSessionKeys(rx, tx, serverPK, serverSK, clientPK []byte) int {
	keys, rc := kxKeys(serverSK, clientPK, clientPK, serverPK)
	if rc != OK {
		return rc
	}
	defer memzero.Zero(keys[:])
	copy(tx, keys[:32])
	copy(rx, keys[32:])
	return OK
}

// kxKeys returns BLAKE2b-512(q || client_pk || server_pk).
func kxKeys(sk, peer, clientPK, serverPK []byte) (*[64]byte, int) {
	q, err := curve25519.X25519(sk, peer)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	defer memzero.Zero(q)

	h, _ := blake2b.New512(nil)
	h.Write(q)
	h.Write(clientPK)
	h.Write(serverPK)

	var keys [64]byte
	h.Sum(keys[:0])
	return &keys, OK
}
