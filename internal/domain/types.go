package domain

import (
	"fmt"
	"math"
)

// OpID indexes an operation in the static catalog.
type OpID uint16

// ArgKind distinguishes byte-sequence roles from small integer roles.
type ArgKind uint8

const (
	ArgBytes ArgKind = iota
	ArgScalar
)

func (k ArgKind) String() string {
	if k == ArgScalar {
		return "scalar"
	}
	return "bytes"
}

// Unbounded is the Max of a Range with no upper limit.
const Unbounded = math.MaxUint64

// Range is an inclusive length bound for bytes roles or a value bound for
// scalar roles.
type Range struct {
	Min, Max uint64
}

// Exact returns a range admitting only n.
func Exact(n uint64) Range { return Range{Min: n, Max: n} }

// Between returns the inclusive range min..max.
func Between(min, max uint64) Range { return Range{Min: min, Max: max} }

// AtLeast returns min.. with no upper bound.
func AtLeast(min uint64) Range { return Range{Min: min, Max: Unbounded} }

// Contains reports whether v lies in r.
func (r Range) Contains(v uint64) bool { return v >= r.Min && v <= r.Max }

// IsExact reports whether r admits a single value.
func (r Range) IsExact() bool { return r.Min == r.Max }

func (r Range) String() string {
	switch {
	case r.Min == r.Max:
		return fmt.Sprintf("%d", r.Min)
	case r.Max == Unbounded:
		return fmt.Sprintf(">=%d", r.Min)
	default:
		return fmt.Sprintf("%d..%d", r.Min, r.Max)
	}
}

// Role is one positional argument of an operation.
type Role struct {
	Name     string
	Kind     ArgKind
	Size     Range // byte length, or value bounds for scalars
	Optional bool  // null is accepted and treated as empty
	Secret   bool  // wiped after the call
}

// OutputKind selects how the output length is derived.
type OutputKind uint8

const (
	OutNone    OutputKind = iota // no output bytes
	OutFixed                     // N
	OutPlus                      // len(Role) + N
	OutMinus                     // len(Role) - N
	OutScalar                    // value of scalar Role
	OutPadded                    // len(Role) rounded up to the next multiple of Param, plus one block when aligned
	OutBounded                   // at most len(Role), decided by the content
)

var outputKindNames = [...]string{"none", "fixed", "plus", "minus", "scalar", "padded", "bounded"}

func (k OutputKind) String() string {
	if int(k) < len(outputKindNames) {
		return outputKindNames[k]
	}
	return "unknown"
}

// Output is the output rule of an operation.
type Output struct {
	Kind   OutputKind
	N      uint64
	Role   string
	Param  string
	Secret bool
}

func (o Output) String() string {
	switch o.Kind {
	case OutNone:
		return "none"
	case OutFixed:
		return fmt.Sprintf("%d", o.N)
	case OutPlus:
		return fmt.Sprintf("len(%s)+%d", o.Role, o.N)
	case OutMinus:
		return fmt.Sprintf("len(%s)-%d", o.Role, o.N)
	case OutScalar:
		return o.Role
	case OutPadded:
		return fmt.Sprintf("pad(%s, %s)", o.Role, o.Param)
	case OutBounded:
		return fmt.Sprintf("<=len(%s)", o.Role)
	}
	return o.Kind.String()
}

// FailureClass tells the adapter how to report a native -1.
type FailureClass uint8

const (
	FailNative FailureClass = iota
	FailAuth
)

// RuleKind selects a constraint spanning two roles.
type RuleKind uint8

const (
	// RuleSameLength requires bytes Role to be exactly as long as Other.
	RuleSameLength RuleKind = iota
	// RuleMinWhen requires scalar Role >= Min while scalar Other == When.
	RuleMinWhen
)

// Rule is a constraint between two roles. Rules are checked only once every
// role is valid on its own.
type Rule struct {
	Kind  RuleKind
	Role  string
	Other string
	Min   uint64
	When  uint64
}

// Descriptor is the immutable description of one operation.
type Descriptor struct {
	ID        OpID
	Name      string
	Family    string
	Roles     []Role
	Output    Output
	OnFailure FailureClass
	Rules     []Rule
	Distinct  [][2]string // role pairs that must not share managed memory
	Heavy     bool        // CPU bound; scheduled off the caller's goroutine
	Doc       string
}

// RoleIndex returns the position of the named role, or -1.
func (d *Descriptor) RoleIndex(name string) int {
	for i := range d.Roles {
		if d.Roles[i].Name == name {
			return i
		}
	}
	return -1
}

// HasSecrets reports whether any role or the output carries secret material.
func (d *Descriptor) HasSecrets() bool {
	if d.Output.Secret {
		return true
	}
	for _, r := range d.Roles {
		if r.Secret {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.Roles = append([]Role(nil), d.Roles...)
	if d.Rules != nil {
		c.Rules = append([]Rule(nil), d.Rules...)
	}
	if d.Distinct != nil {
		c.Distinct = append([][2]string(nil), d.Distinct...)
	}
	return c
}
