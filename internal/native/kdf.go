package native

import (
	"encoding/binary"

	"sodiumbridge/internal/util/memzero"
)

// KDFDeriveFromKey writes subkey id of key under the 8-byte context ctx:
// BLAKE2b keyed with key over an empty message, with salt LE64(id) and
// personalization ctx, each zero-padded to 16 bytes.
func KDFDeriveFromKey(out []byte, id uint64, ctx, key []byte) int {
	var salt [blake2bSaltBytes]byte
	binary.LittleEndian.PutUint64(salt[:], id)

	state := make([]byte, GenericHashStateBytes)
	defer memzero.Zero(state)
	if rc := blake2bState(state, len(out), key, salt[:], ctx); rc != OK {
		return rc
	}
	h, rc := resumeBlake2b(state)
	if rc != OK {
		return rc
	}
	sum := h.Sum(nil)
	copy(out, sum)
	zeroSlice(sum)
	return OK
}
