package native

import (
	"crypto/rand"
	"sync"
	"sync/atomic"
)

const (
	OK              = 0
	Fail            = -1
	ErrInvalidPoint = -2
	ErrRandom       = -3
	ErrParameter    = -4
)

var (
	initOnce sync.Once
	initFail atomic.Bool
)

// Init prepares the library. It returns 0 on the first successful call,
// 1 on every later call and -1 if the random source is unusable.
func Init() int {
	first := false
	initOnce.Do(func() {
		first = true
		var sample [16]byte
		if _, err := rand.Read(sample[:]); err != nil {
			initFail.Store(true)
		}
	})
	switch {
	case initFail.Load():
		return Fail
	case first:
		return OK
	default:
		return 1
	}
}

// RandomBytes fills out from the system CSPRNG.
func RandomBytes(out []byte) int {
	if len(out) == 0 {
		return OK
	}
	if _, err := rand.Read(out); err != nil {
		return ErrRandom
	}
	return OK
}
