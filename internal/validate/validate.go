// Package validate checks decoded arguments against an operation's
// preconditions before anything reaches the native layer.
package validate

import (
	"strconv"

	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
	"sodiumbridge/internal/native"
)

// Validate checks argument count, then presence, length and scalar range of
// each role in role order, then the rules spanning roles, then aliasing. It
// returns the first violation.
func Validate(desc *domain.Descriptor, args *domain.Args) *errors.Error {
	if args.Extra > 0 || len(args.List) > len(desc.Roles) {
		return errors.New(errors.PhaseValidate, errors.KindFormat).
			Op(desc.Name).
			Expected(countString(len(desc.Roles))).
			Actual(int64(len(desc.Roles) + args.Extra)).
			Detail("too many arguments").
			Build()
	}

	for i, role := range desc.Roles {
		var arg domain.Arg
		if i < len(args.List) {
			arg = args.List[i]
		}
		if err := checkRole(desc.Name, role, arg); err != nil {
			return err
		}
	}

	for _, rule := range desc.Rules {
		if err := checkRule(desc.Name, rule, args); err != nil {
			return err
		}
	}

	for _, pair := range desc.Distinct {
		a, _ := args.Get(pair[0])
		b, _ := args.Get(pair[1])
		if a.Buffer.Overlaps(b.Buffer) {
			return errors.New(errors.PhaseValidate, errors.KindAliasedArgument).
				Op(desc.Name).
				Role(pair[0] + "," + pair[1]).
				Detail("arguments share memory").
				Build()
		}
	}
	return nil
}

func checkRole(op string, role domain.Role, arg domain.Arg) *errors.Error {
	if role.Kind == domain.ArgScalar {
		if !arg.Present {
			return errors.Missing(op, role.Name)
		}
		if !role.Size.Contains(arg.Value) {
			return errors.Range(op, role.Name, role.Size.String(), arg.Value)
		}
		return nil
	}

	if !arg.Buffer.Present() {
		if role.Optional {
			return nil
		}
		return errors.Missing(op, role.Name)
	}
	n := uint64(arg.Buffer.Len())
	if role.Optional && n == 0 {
		return nil
	}
	if !role.Size.Contains(n) {
		return errors.Length(op, role.Name, role.Size.String(), arg.Buffer.Len())
	}
	return nil
}

func checkRule(op string, rule domain.Rule, args *domain.Args) *errors.Error {
	switch rule.Kind {
	case domain.RuleSameLength:
		want, got := args.Len(rule.Other), args.Len(rule.Role)
		if got != want {
			return errors.Length(op, rule.Role, "len("+rule.Other+")="+strconv.FormatUint(want, 10), int(got))
		}
	case domain.RuleMinWhen:
		if args.Scalar(rule.Other) != rule.When {
			return nil
		}
		if v := args.Scalar(rule.Role); v < rule.Min {
			return errors.New(errors.PhaseValidate, errors.KindOutOfRange).
				Op(op).Role(rule.Role).
				Expected(">="+strconv.FormatUint(rule.Min, 10)).
				Actual(int64(v)).
				Detail("when %s=%d", rule.Other, rule.When).
				Build()
		}
	}
	return nil
}

func countString(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n) + " arguments"
}

// OutputLen returns the exact output size for a validated call. For bounded
// outputs it is the upper bound.
func OutputLen(desc *domain.Descriptor, args *domain.Args) uint64 {
	out := desc.Output
	switch out.Kind {
	case domain.OutFixed:
		return out.N
	case domain.OutPlus:
		return args.Len(out.Role) + out.N
	case domain.OutMinus:
		n := args.Len(out.Role)
		if n < out.N {
			return 0
		}
		return n - out.N
	case domain.OutScalar:
		return args.Scalar(out.Role)
	case domain.OutPadded:
		bs := args.Scalar(out.Param)
		if bs == 0 {
			return 0
		}
		return native.PaddedLen(args.Len(out.Role), bs)
	case domain.OutBounded:
		return args.Len(out.Role)
	}
	return 0
}
