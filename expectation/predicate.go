package expectation

import (
	"bytes"
	"fmt"

	"go.uber.org/mock/gomock"

	"github.com/cosmos/evmmock/registry"
	"github.com/cosmos/evmmock/types"
)

// Predicate filters the calls an expectation accepts. The zero value accepts every call.
type Predicate struct {
	match func(ctx *types.CallContext, args types.Args) (bool, error)
	desc  string
	arity *int
}

// Matches evaluates the predicate. An error means the predicate can't be
// applied to the arguments at all and is fatal to the test.
func (p Predicate) Matches(ctx *types.CallContext, args types.Args) (bool, error) {
	if p.match == nil {
		return true, nil
	}
	return p.match(ctx, args)
}

func (p Predicate) String() string {
	if p.desc == "" {
		return "any arguments"
	}
	return p.desc
}

// Any accepts every call.
func Any() Predicate {
	return Predicate{}
}

// Func builds a predicate over the decoded arguments.
func Func(fn func(args types.Args) bool) Predicate {
	return Predicate{
		match: func(_ *types.CallContext, args types.Args) (bool, error) {
			return fn(args), nil
		},
		desc: "custom predicate",
	}
}

// FuncWithContext builds a predicate that also sees the caller, value and call kind.
func FuncWithContext(fn func(ctx *types.CallContext, args types.Args) bool) Predicate {
	return Predicate{
		match: func(ctx *types.CallContext, args types.Args) (bool, error) {
			return fn(ctx, args), nil
		},
		desc: "custom predicate",
	}
}

// Matchers matches arguments positionally with gomock matchers. Plain values
// are compared with gomock.Eq.
func Matchers(matchers ...any) Predicate {
	ms := make([]gomock.Matcher, len(matchers))
	for i, m := range matchers {
		if matcher, ok := m.(gomock.Matcher); ok {
			ms[i] = matcher
		} else {
			ms[i] = gomock.Eq(m)
		}
	}

	return Predicate{
		match: func(_ *types.CallContext, args types.Args) (bool, error) {
			if args.Len() != len(ms) {
				return false, fmt.Errorf("predicate has %d matchers but the call has %d arguments", len(ms), args.Len())
			}
			for i, m := range ms {
				if !m.Matches(args.At(i)) {
					return false, nil
				}
			}
			return true, nil
		},
		desc:  fmt.Sprintf("arguments matching %v", ms),
		arity: arityOf(len(ms)),
	}
}

// CheckArity fails when the predicate was written for a different number of arguments than n.
func (p Predicate) CheckArity(n int) error {
	if p.arity != nil && *p.arity != n {
		return fmt.Errorf("predicate is written for %d arguments, the method takes %d", *p.arity, n)
	}
	return nil
}

func arityOf(n int) *int { return &n }

func argAs[T any](args types.Args, i int) (T, error) {
	var zero T
	if i >= args.Len() {
		return zero, fmt.Errorf("predicate reads argument %d but the call has %d arguments", i, args.Len())
	}
	v, ok := args.At(i).(T)
	if !ok {
		return zero, fmt.Errorf("argument %d is %T, predicate expects %T", i, args.At(i), zero)
	}
	return v, nil
}

// Arg1 builds a typed predicate over a single-argument method.
func Arg1[A any](fn func(A) bool) Predicate {
	return Predicate{
		match: func(_ *types.CallContext, args types.Args) (bool, error) {
			a, err := argAs[A](args, 0)
			if err != nil {
				return false, err
			}
			return fn(a), nil
		},
		desc:  "typed predicate",
		arity: arityOf(1),
	}
}

// Arg2 builds a typed predicate over a two-argument method.
func Arg2[A, B any](fn func(A, B) bool) Predicate {
	return Predicate{
		match: func(_ *types.CallContext, args types.Args) (bool, error) {
			a, err := argAs[A](args, 0)
			if err != nil {
				return false, err
			}
			b, err := argAs[B](args, 1)
			if err != nil {
				return false, err
			}
			return fn(a, b), nil
		},
		desc:  "typed predicate",
		arity: arityOf(2),
	}
}

// Arg3 builds a typed predicate over a three-argument method.
func Arg3[A, B, C any](fn func(A, B, C) bool) Predicate {
	return Predicate{
		match: func(_ *types.CallContext, args types.Args) (bool, error) {
			a, err := argAs[A](args, 0)
			if err != nil {
				return false, err
			}
			b, err := argAs[B](args, 1)
			if err != nil {
				return false, err
			}
			c, err := argAs[C](args, 2)
			if err != nil {
				return false, err
			}
			return fn(a, b, c), nil
		},
		desc:  "typed predicate",
		arity: arityOf(3),
	}
}

// Into copies the arguments into a value of type T (usually a struct whose
// fields follow the argument names) and applies fn to it.
func Into[T any](fn func(T) bool) Predicate {
	return Predicate{
		match: func(_ *types.CallContext, args types.Args) (bool, error) {
			var v T
			if err := args.Copy(&v); err != nil {
				return false, fmt.Errorf("can't copy arguments into %T: %w", v, err)
			}
			return fn(v), nil
		},
		desc: "typed predicate",
	}
}

// Values matches calls whose arguments ABI-encode exactly like values. Values
// are coerced to the input types, so decimal strings, hex strings and Go
// integers compare equal to the decoded big integers.
func Values(d *registry.Descriptor, values ...any) (Predicate, error) {
	inputs := d.Inputs()
	if len(values) != len(inputs) {
		return Predicate{}, fmt.Errorf("%s takes %d arguments, got %d values", d.Signature, len(inputs), len(values))
	}

	coerced := make([]any, len(values))
	for i, v := range values {
		c, err := registry.Coerce(inputs[i].Type, v)
		if err != nil {
			return Predicate{}, fmt.Errorf("argument %d of %s: %w", i, d.Signature, err)
		}
		coerced[i] = c
	}
	want, err := inputs.Pack(coerced...)
	if err != nil {
		return Predicate{}, fmt.Errorf("can't encode arguments of %s: %w", d.Signature, err)
	}

	return Predicate{
		match: func(_ *types.CallContext, args types.Args) (bool, error) {
			got, err := inputs.Pack(args.Values()...)
			if err != nil {
				return false, fmt.Errorf("can't encode call arguments: %w", err)
			}
			return bytes.Equal(got, want), nil
		},
		desc:  "arguments " + registry.NewArgs(inputs, coerced...).String(),
		arity: arityOf(len(inputs)),
	}, nil
}
