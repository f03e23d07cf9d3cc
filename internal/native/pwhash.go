package native

import (
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

const (
	AlgArgon2i13  = 1
	AlgArgon2id13 = 2

	argon2iMinOps = 3
)

// Pwhash derives len(out) bytes from passwd with Argon2. memlimit is in
// bytes; a single lane is used.
func Pwhash(out, passwd, salt []byte, opslimit, memlimit uint64, alg int) int {
	memKiB := memlimit / 1024
	if opslimit == 0 || opslimit > 1<<32-1 || memKiB == 0 || memKiB > 1<<32-1 {
		return ErrParameter
	}
	var key []byte
	switch alg {
	case AlgArgon2i13:
		if opslimit < argon2iMinOps {
			return ErrParameter
		}
		key = argon2.Key(passwd, salt, uint32(opslimit), uint32(memKiB), 1, uint32(len(out)))
	case AlgArgon2id13:
		key = argon2.IDKey(passwd, salt, uint32(opslimit), uint32(memKiB), 1, uint32(len(out)))
	default:
		return ErrParameter
	}
	copy(out, key)
	zeroSlice(key)
	return OK
}

// PwhashScrypt derives len(out) bytes from passwd with scrypt, choosing N, r
// and p from the limits the way libsodium does.
func PwhashScrypt(out, passwd, salt []byte, opslimit, memlimit uint64) int {
	nLog2, r, p := ScryptParams(opslimit, memlimit)
	key, err := scrypt.Key(passwd, salt, 1<<nLog2, r, p, len(out))
	if err != nil {
		return ErrParameter
	}
	copy(out, key)
	zeroSlice(key)
	return OK
}

// ScryptParams maps opslimit and memlimit to scrypt's N (as log2), r and p.
func ScryptParams(opslimit, memlimit uint64) (nLog2 uint, r, p int) {
	if opslimit < 32768 {
		opslimit = 32768
	}
	r = 8
	var maxN uint64
	if opslimit < memlimit/32 {
		p = 1
		maxN = opslimit / uint64(r*4)
		nLog2 = pickLog2(maxN)
		return nLog2, r, p
	}
	maxN = memlimit / uint64(r*128)
	nLog2 = pickLog2(maxN)
	maxrp := (opslimit / 4) / (uint64(1) << nLog2)
	if maxrp > 0x3fffffff {
		maxrp = 0x3fffffff
	}
	p = int(maxrp) / r
	if p == 0 {
		p = 1
	}
	return nLog2, r, p
}

func pickLog2(maxN uint64) uint {
	n := uint(1)
	for ; n < 63; n++ {
		if uint64(1)<<n > maxN/2 {
			break
		}
	}
	return n
}
