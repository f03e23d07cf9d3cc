package native

import "golang.org/x/crypto/curve25519"

// ScalarMult computes the X25519 shared point n*p.
func ScalarMult(q, n, p []byte) int {
	out, err := curve25519.X25519(n, p)
	if err != nil {
		return ErrInvalidPoint
	}
	copy(q, out)
	zeroSlice(out)
	return OK
}

// ScalarMultBase computes the X25519 public point n*B.
func ScalarMultBase(q, n []byte) int {
	return scalarBase(q, n)
}
