package native

import (
	"encoding"
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/blake2b"

	"sodiumbridge/internal/util/memzero"
)

// GenericHashStateBytes is the size of a serialized BLAKE2b state: the
// binary form of an x/crypto blake2b digest.
const GenericHashStateBytes = 213

const (
	blake2bMagic      = "b2b"
	blake2bSaltBytes  = 16
	blake2bPersBytes  = 16
	blake2bHashAt     = len(blake2bMagic)
	blake2bCounterAt  = blake2bHashAt + 8*8
	blake2bSizeAt     = blake2bCounterAt + 2*8
	blake2bBlockAt    = blake2bSizeAt + 1
	blake2bOffsetAt   = blake2bBlockAt + blake2b.BlockSize
	blake2bParamBytes = 64
)

var blake2bIV = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

// blake2bState writes the serialized state of a BLAKE2b instance set up
// from the full parameter block. blake2b.New exposes neither salt nor
// personalization and refuses to serialize keyed digests, so the state is
// built here and resumed through UnmarshalBinary.
func blake2bState(state []byte, size int, key, salt, person []byte) int {
	if len(state) != GenericHashStateBytes || size < 1 || size > blake2b.Size ||
		len(key) > blake2b.Size || len(salt) > blake2bSaltBytes || len(person) > blake2bPersBytes {
		return ErrParameter
	}
	var param [blake2bParamBytes]byte
	param[0] = byte(size)
	param[1] = byte(len(key))
	param[2] = 1 // fanout
	param[3] = 1 // depth
	copy(param[32:48], salt)
	copy(param[48:64], person)

	copy(state, blake2bMagic)
	for i, v := range blake2bIV {
		binary.BigEndian.PutUint64(state[blake2bHashAt+8*i:], v^binary.LittleEndian.Uint64(param[8*i:]))
	}
	clear(state[blake2bCounterAt:blake2bSizeAt])
	state[blake2bSizeAt] = byte(size)
	block := state[blake2bBlockAt:blake2bOffsetAt]
	clear(block)
	copy(block, key)
	state[blake2bOffsetAt] = 0
	if len(key) > 0 {
		// the padded key is the first block, compressed on the next write
		state[blake2bOffsetAt] = blake2b.BlockSize
	}
	return OK
}

// resumeBlake2b restores a hasher from a serialized state.
func resumeBlake2b(state []byte) (hash.Hash, int) {
	if len(state) != GenericHashStateBytes || string(state[:len(blake2bMagic)]) != blake2bMagic {
		return nil, ErrParameter
	}
	if size := state[blake2bSizeAt]; size < 1 || size > blake2b.Size {
		return nil, ErrParameter
	}
	if state[blake2bOffsetAt] > blake2b.BlockSize {
		return nil, ErrParameter
	}
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, ErrParameter
	}
	if err := h.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		return nil, ErrParameter
	}
	return h, OK
}

// saveBlake2b serializes h into state.
func saveBlake2b(state []byte, h hash.Hash) int {
	b, err := h.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil || len(b) != len(state) {
		return Fail
	}
	copy(state, b)
	memzero.Zero(b)
	return OK
}

// GenericHashInit writes the state of a BLAKE2b-outlen hash, keyed when key
// is non-empty.
func GenericHashInit(state, key []byte, outlen int) int {
	return blake2bState(state, outlen, key, nil, nil)
}

// GenericHashUpdate absorbs in into the state and writes the result to out.
func GenericHashUpdate(out, state, in []byte) int {
	h, rc := resumeBlake2b(state)
	if rc != OK {
		return rc
	}
	h.Write(in)
	return saveBlake2b(out, h)
}

// GenericHashFinal writes the first len(out) bytes of the digest. Like
// libsodium, the length requested here need not match the one the state was
// started with; the parameter block already fixed the digest.
func GenericHashFinal(out, state []byte) int {
	if len(out) < 1 || len(out) > blake2b.Size {
		return ErrParameter
	}
	full := make([]byte, len(state))
	defer memzero.Zero(full)
	copy(full, state)
	if len(full) > blake2bSizeAt {
		full[blake2bSizeAt] = blake2b.Size
	}
	h, rc := resumeBlake2b(full)
	if rc != OK {
		return rc
	}
	sum := h.Sum(nil)
	copy(out, sum)
	zeroSlice(sum)
	return OK
}
