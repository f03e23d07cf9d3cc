package domain

// Origin is the managed memory span a buffer was copied from. An empty Space
// means the origin is unknown and never overlaps anything.
type Origin struct {
	Space      string
	Start, End uint64
}

// Buffer is a private copy of managed bytes.
type Buffer struct {
	data    []byte
	present bool
	origin  Origin
}

// NewBuffer wraps data, which the caller must already own.
func NewBuffer(data []byte, origin Origin) Buffer {
	if data == nil {
		data = []byte{}
	}
	return Buffer{data: data, present: true, origin: origin}
}

// Absent is the buffer for a managed null.
func Absent() Buffer { return Buffer{} }

func (b Buffer) Bytes() []byte  { return b.data }
func (b Buffer) Len() int       { return len(b.data) }
func (b Buffer) Present() bool  { return b.present }
func (b Buffer) Origin() Origin { return b.origin }

// Overlaps reports whether both buffers were copied from intersecting spans of
// the same managed memory.
func (b Buffer) Overlaps(o Buffer) bool {
	x, y := b.origin, o.origin
	if x.Space == "" || x.Space != y.Space {
		return false
	}
	if x.Start == x.End || y.Start == y.End {
		return false
	}
	return x.Start < y.End && y.Start < x.End
}
