package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in an invocation the error was raised
type Phase string

const (
	PhaseDecode   Phase = "decode"   // managed value to boundary buffer
	PhaseValidate Phase = "validate" // precondition checks
	PhaseDispatch Phase = "dispatch" // native call
	PhaseAdapt    Phase = "adapt"    // result conversion
	PhaseSchedule Phase = "schedule" // worker pool hand-off
	PhaseHost     Phase = "host"     // host runtime glue
)

// Kind categorizes the error. The set is closed: callers switch on it.
type Kind string

const (
	KindMissingArgument Kind = "missing_argument"
	KindFormat          Kind = "format_error"
	KindInvalidLength   Kind = "invalid_length"
	KindOutOfRange      Kind = "out_of_range"
	KindAliasedArgument Kind = "aliased_argument"
	KindAuthentication  Kind = "authentication_failure"
	KindNative          Kind = "native_failure"
	KindUnsupported     Kind = "unsupported_operation"
	KindUnavailable     Kind = "unavailable"
)

var kindCodes = map[Kind]int32{
	KindMissingArgument: 1,
	KindFormat:          2,
	KindInvalidLength:   3,
	KindOutOfRange:      4,
	KindAliasedArgument: 5,
	KindAuthentication:  6,
	KindNative:          7,
	KindUnsupported:     8,
	KindUnavailable:     9,
}

// Code returns the stable numeric code used on integer-only boundaries.
func (k Kind) Code() int32 { return kindCodes[k] }

// Sentinels for errors.Is matching by kind.
var (
	MissingArgument       = &Error{Kind: KindMissingArgument}
	FormatError           = &Error{Kind: KindFormat}
	InvalidLength         = &Error{Kind: KindInvalidLength}
	OutOfRange            = &Error{Kind: KindOutOfRange}
	AliasedArgument       = &Error{Kind: KindAliasedArgument}
	AuthenticationFailure = &Error{Kind: KindAuthentication}
	NativeFailure         = &Error{Kind: KindNative}
	UnsupportedOperation  = &Error{Kind: KindUnsupported}
	Unavailable           = &Error{Kind: KindUnavailable}
)

// Error is the structured error returned across the boundary.
// It never carries argument contents, only shapes.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Op       string
	Role     string
	Expected string
	Actual   int64
	Code     int
	Detail   string
	hasAct   bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Op != "" || e.Role != "" {
		b.WriteString(" at ")
		b.WriteString(e.Op)
		if e.Role != "" {
			if e.Op != "" {
				b.WriteByte('.')
			}
			b.WriteString(e.Role)
		}
	}

	switch {
	case e.Expected != "" && e.hasAct:
		b.WriteString(": want ")
		b.WriteString(e.Expected)
		b.WriteString(", got ")
		b.WriteString(strconv.FormatInt(e.Actual, 10))
	case e.Expected != "":
		b.WriteString(": want ")
		b.WriteString(e.Expected)
	}

	if e.Kind == KindNative && e.Code != 0 {
		b.WriteString(" (code ")
		b.WriteString(strconv.Itoa(e.Code))
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same kind. Sentinels carry no phase,
// so a phase is only compared when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Phase == "" || e.Phase == t.Phase
}

// HasActual reports whether Actual was set.
func (e *Error) HasActual() bool { return e.hasAct }

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(name string) *Builder {
	b.err.Op = name
	return b
}

// Role sets the argument role
func (b *Builder) Role(name string) *Builder {
	b.err.Role = name
	return b
}

// Expected sets the human-readable constraint that was violated
func (b *Builder) Expected(s string) *Builder {
	b.err.Expected = s
	return b
}

// Actual sets the observed length or value
func (b *Builder) Actual(n int64) *Builder {
	b.err.Actual = n
	b.err.hasAct = true
	return b
}

// Code sets the native return code
func (b *Builder) Code(rc int) *Builder {
	b.err.Code = rc
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// Convenience constructors for the common shapes

// Missing reports an absent required role.
func Missing(op, role string) *Error {
	return New(PhaseValidate, KindMissingArgument).Op(op).Role(role).Build()
}

// Length reports a byte length outside the role's bounds.
func Length(op, role, expected string, actual int) *Error {
	return New(PhaseValidate, KindInvalidLength).
		Op(op).Role(role).Expected(expected).Actual(int64(actual)).Build()
}

// Range reports a scalar outside the role's bounds.
func Range(op, role, expected string, actual uint64) *Error {
	b := New(PhaseValidate, KindOutOfRange).Op(op).Role(role).Expected(expected)
	if actual <= 1<<62 {
		b.Actual(int64(actual))
	} else {
		b.Detail("value exceeds 2^62")
	}
	return b.Build()
}

// Format reports a managed value that is not byte-sequence compatible.
func Format(detail string, args ...any) *Error {
	return New(PhaseDecode, KindFormat).Detail(detail, args...).Build()
}

// Unsupported reports an operation with no dispatcher entry.
func Unsupported(op string) *Error {
	return New(PhaseDispatch, KindUnsupported).Op(op).Build()
}

// As extracts an *Error from err, wrapping foreign errors as native failures.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	for e := err; e != nil; {
		if be, ok := e.(*Error); ok {
			return be
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return New(PhaseHost, KindNative).Cause(err).Build()
}
