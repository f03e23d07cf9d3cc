package native

// PaddedLen is the ISO/IEC 7816-4 padded length of n bytes.
func PaddedLen(n, blocksize uint64) uint64 {
	return n + blocksize - n%blocksize
}

// Pad copies buf into out followed by 0x80 and zeros up to len(out).
func Pad(out, buf []byte, blocksize int) int {
	if blocksize <= 0 || uint64(len(out)) != PaddedLen(uint64(len(buf)), uint64(blocksize)) {
		return ErrParameter
	}
	copy(out, buf)
	out[len(buf)] = 0x80
	clear(out[len(buf)+1:])
	return OK
}

// Unpad locates the padding boundary in the last blocksize bytes of buf in
// constant time and copies the unpadded prefix into out. It returns the
// unpadded length.
func Unpad(out, buf []byte, blocksize int) (int, int) {
	if blocksize <= 0 || len(buf) < blocksize {
		return 0, Fail
	}
	var acc, padLen, valid uint
	tail := len(buf) - 1
	for i := 0; i < blocksize; i++ {
		c := uint(buf[tail-i])
		isBarrier := (((acc - 1) & (padLen - 1) & ((c ^ 0x80) - 1)) >> 8) & 1
		acc |= c
		padLen |= uint(i) & -isBarrier
		valid |= isBarrier
	}
	if valid == 0 {
		return 0, Fail
	}
	n := len(buf) - 1 - int(padLen)
	copy(out, buf[:n])
	return n, OK
}
