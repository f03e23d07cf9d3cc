package native

import (
	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"

	"sodiumbridge/internal/util/memzero"
)

// CoreEd25519Add writes p+q.
func CoreEd25519Add(r, p, q []byte) int {
	return pointOp(r, p, q, (*edwards25519.Point).Add)
}

// CoreEd25519Sub writes p-q.
func CoreEd25519Sub(r, p, q []byte) int {
	return pointOp(r, p, q, (*edwards25519.Point).Subtract)
}

func pointOp(r, p, q []byte, op func(v, a, b *edwards25519.Point) *edwards25519.Point) int {
	P, err := new(edwards25519.Point).SetBytes(p)
	if err != nil {
		return ErrInvalidPoint
	}
	Q, err := new(edwards25519.Point).SetBytes(q)
	if err != nil {
		return ErrInvalidPoint
	}
	copy(r, op(new(edwards25519.Point), P, Q).Bytes())
	return OK
}

// CoreEd25519ScalarRandom writes a uniformly random non-zero scalar mod L.
func CoreEd25519ScalarRandom(r []byte) int {
	var wide [64]byte
	defer memzero.Zero(wide[:])
	zero := edwards25519.NewScalar()
	for {
		if rc := RandomBytes(wide[:]); rc != OK {
			return rc
		}
		s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
		if err != nil {
			return Fail
		}
		if s.Equal(zero) == 0 {
			copy(r, s.Bytes())
			return OK
		}
	}
}

// curve25519A is the Montgomery coefficient A = 486662.
var curve25519A, _ = new(field.Element).SetBytes([]byte{
	0x06, 0x6d, 0x07, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
})

// CoreEd25519FromUniform maps r to a point of the prime-order subgroup the
// way libsodium does: Elligator 2 onto Curve25519, conversion to Edwards
// form with the x sign taken from the top bit of r, then cofactor clearing.
func CoreEd25519FromUniform(p, r []byte) int {
	var s [32]byte
	copy(s[:], r)
	xSign := s[31] & 0x80
	s[31] &= 0x7f

	one := new(field.Element).One()
	u, err := new(field.Element).SetBytes(s[:])
	if err != nil {
		return ErrParameter
	}

	// x = -A / (1 + 2u^2)
	den := new(field.Element).Square(u)
	den.Add(den, den).Add(den, one)
	x := new(field.Element).Invert(den)
	x.Multiply(x, curve25519A).Negate(x)

	// e = x^3 + A x^2 + x; take the other root when e is not a square
	x2 := new(field.Element).Square(x)
	e := new(field.Element).Multiply(x2, x)
	e.Add(e, x).Add(e, new(field.Element).Multiply(x2, curve25519A))
	_, square := new(field.Element).SqrtRatio(e, one)
	alt := new(field.Element).Negate(x)
	alt.Subtract(alt, curve25519A)
	x.Select(x, alt, square)

	// Edwards y = (x - 1) / (x + 1)
	num := new(field.Element).Subtract(x, one)
	inv := new(field.Element).Add(x, one)
	inv.Invert(inv)
	y := num.Multiply(num, inv)

	copy(s[:], y.Bytes())
	s[31] |= xSign
	P, err := new(edwards25519.Point).SetBytes(s[:])
	if err != nil {
		return ErrInvalidPoint
	}
	copy(p, new(edwards25519.Point).MultByCofactor(P).Bytes())
	return OK
}

// ScalarMultEd25519 computes n*p on the prime-order subgroup. With clamp set
// n is clamped first; otherwise only its top bit is cleared.
func ScalarMultEd25519(q, n, p []byte, clamp bool) int {
	P, err := new(edwards25519.Point).SetBytes(p)
	if err != nil {
		return ErrInvalidPoint
	}
	if smallOrder(P) || !primeOrder(P) {
		return ErrInvalidPoint
	}
	s, rc := edScalar(n, clamp)
	if rc != OK {
		return rc
	}
	Q := new(edwards25519.Point).ScalarMult(s, P)
	if Q.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return Fail
	}
	copy(q, Q.Bytes())
	return OK
}

// ScalarMultEd25519Base computes n*B.
func ScalarMultEd25519Base(q, n []byte, clamp bool) int {
	if memzero.IsZero(n) {
		return Fail
	}
	s, rc := edScalar(n, clamp)
	if rc != OK {
		return rc
	}
	Q := new(edwards25519.Point).ScalarBaseMult(s)
	if Q.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return Fail
	}
	copy(q, Q.Bytes())
	return OK
}

func edScalar(n []byte, clamp bool) (*edwards25519.Scalar, int) {
	if clamp {
		s, err := edwards25519.NewScalar().SetBytesWithClamping(n)
		if err != nil {
			return nil, ErrParameter
		}
		return s, OK
	}
	var wide [64]byte
	defer memzero.Zero(wide[:])
	copy(wide[:], n)
	wide[31] &= 127
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return nil, ErrParameter
	}
	return s, OK
}

func smallOrder(P *edwards25519.Point) bool {
	return new(edwards25519.Point).MultByCofactor(P).Equal(edwards25519.NewIdentityPoint()) == 1
}

// primeOrder reports whether L*P is the identity, computed as (L-1)*P + P.
func primeOrder(P *edwards25519.Point) bool {
	one, _ := edwards25519.NewScalar().SetCanonicalBytes(scalarOne[:])
	minusOne := edwards25519.NewScalar().Negate(one)
	lp := new(edwards25519.Point).ScalarMult(minusOne, P)
	lp.Add(lp, P)
	return lp.Equal(edwards25519.NewIdentityPoint()) == 1
}

var scalarOne = [32]byte{1}
