package codec

import "sodiumbridge/internal/domain"

// NumberArray exchanges byte sequences as arrays of numbers, the shape a
// JSON document or a JavaScript array takes.
type NumberArray struct{}

func (NumberArray) Name() string { return "numbers" }

func (NumberArray) Decode(v any) (domain.Buffer, error) { return decode(v) }

func (NumberArray) DecodeScalar(v any) (uint64, error) { return scalar(v) }

// Encode returns b as []any of float64, matching encoding/json's decoding of
// a number array.
func (NumberArray) Encode(b []byte) any {
	out := make([]any, len(b))
	for i, c := range b {
		out[i] = float64(c)
	}
	return out
}
