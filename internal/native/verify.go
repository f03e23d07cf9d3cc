package native

import (
	"crypto/subtle"

	"sodiumbridge/internal/util/memzero"
)

// Verify compares x and y in constant time.
func Verify(x, y []byte) int {
	if len(x) != len(y) || subtle.ConstantTimeCompare(x, y) != 1 {
		return Fail
	}
	return OK
}

func zeroSlice(b []byte) { memzero.Zero(b) }
