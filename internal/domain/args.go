package domain

// Arg is one decoded argument bound to a role.
type Arg struct {
	Role    string
	Kind    ArgKind
	Buffer  Buffer
	Value   uint64
	Present bool
}

// Args holds the decoded arguments of a call in role order. Extra counts the
// managed values supplied beyond the descriptor's roles.
type Args struct {
	List  []Arg
	Extra int
}

// Get returns the argument bound to role.
func (a *Args) Get(role string) (Arg, bool) {
	for i := range a.List {
		if a.List[i].Role == role {
			return a.List[i], true
		}
	}
	return Arg{}, false
}

// Bytes returns the bytes of role; absent optional roles yield an empty slice.
func (a *Args) Bytes(role string) []byte {
	arg, ok := a.Get(role)
	if !ok || !arg.Buffer.Present() {
		return []byte{}
	}
	return arg.Buffer.Bytes()
}

// Scalar returns the value of a scalar role, or zero.
func (a *Args) Scalar(role string) uint64 {
	arg, _ := a.Get(role)
	return arg.Value
}

// Len returns the byte length of role.
func (a *Args) Len(role string) uint64 {
	return uint64(len(a.Bytes(role)))
}
