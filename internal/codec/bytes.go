package codec

import "sodiumbridge/internal/domain"

// Bytes exchanges byte sequences as Go []byte.
type Bytes struct{}

func (Bytes) Name() string { return "bytes" }

func (Bytes) Decode(v any) (domain.Buffer, error) { return decode(v) }

func (Bytes) DecodeScalar(v any) (uint64, error) { return scalar(v) }

// Encode returns a fresh copy of b.
func (Bytes) Encode(b []byte) any {
	return append(make([]byte, 0, len(b)), b...)
}
