package evmmock

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/expectation"
	"github.com/cosmos/evmmock/rpc/backend"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// Expectation configures how a contract method answers. Every method returns
// the receiver so calls can be chained; invalid configurations abort the test.
type Expectation struct {
	contract   *Contract
	inner      *expectation.Expectation
	generation uint64
}

func (e *Expectation) update(fn func(x *expectation.Expectation) error) *Expectation {
	r := e.contract.mock.reporter
	r.Helper()

	var err error
	e.contract.mock.server.WithBackend(func(*backend.Backend) {
		if e.generation != e.contract.generation {
			err = errorsmod.Wrapf(
				types.ErrConfiguration,
				"expectation for %s (set at %s) was removed by a checkpoint", e.inner, e.inner.Location(),
			)
			return
		}
		err = fn(e.inner)
	})
	if err != nil {
		r.Fatalf("%s", err)
	}
	return e
}

// CallCount returns the number of calls the expectation accepted.
func (e *Expectation) CallCount() uint64 {
	var n uint64
	e.contract.mock.server.WithBackend(func(*backend.Backend) {
		n = e.inner.CallCount()
	})
	return n
}

// Location returns the file:line the expectation was created at.
func (e *Expectation) Location() string {
	return e.inner.Location()
}

// Predicate restricts the expectation to calls whose arguments satisfy fn.
func (e *Expectation) Predicate(fn func(args Args) bool) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.With(expectation.Func(fn))
}

// PredicateWithContext is Predicate with access to the caller, value and call kind.
func (e *Expectation) PredicateWithContext(fn func(ctx *CallContext, args Args) bool) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.With(expectation.FuncWithContext(fn))
}

// With sets a predicate built by the expectation package, such as
// expectation.Arg2 or expectation.Into.
func (e *Expectation) With(p expectation.Predicate) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetPredicate(p)
	})
}

// WithArgs matches arguments positionally with gomock matchers; plain values
// are compared with gomock.Eq.
func (e *Expectation) WithArgs(matchers ...any) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.With(expectation.Matchers(matchers...))
}

// WithValues matches calls whose arguments encode like values.
func (e *Expectation) WithValues(values ...any) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		p, err := expectation.Values(x.Descriptor(), values...)
		if err != nil {
			return errorsmod.Wrap(types.ErrConfiguration, err.Error())
		}
		return x.SetPredicate(p)
	})
}

// TimesRange sets the cardinality.
func (e *Expectation) TimesRange(r expectation.TimesRange) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetTimes(r)
	})
}

// Times expects exactly n calls.
func (e *Expectation) Times(n uint64) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.TimesRange(expectation.Times(n))
}

// Once expects exactly one call.
func (e *Expectation) Once() *Expectation {
	e.contract.mock.reporter.Helper()
	return e.TimesRange(expectation.Once())
}

// Never expects no calls.
func (e *Expectation) Never() *Expectation {
	e.contract.mock.reporter.Helper()
	return e.TimesRange(expectation.Never())
}

// AnyTimes accepts any number of calls, including none.
func (e *Expectation) AnyTimes() *Expectation {
	e.contract.mock.reporter.Helper()
	return e.TimesRange(expectation.AnyTimes())
}

// AtLeast expects n or more calls.
func (e *Expectation) AtLeast(n uint64) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.TimesRange(expectation.AtLeast(n))
}

// AtMost accepts up to n calls.
func (e *Expectation) AtMost(n uint64) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.TimesRange(expectation.AtMost(n))
}

// Between expects lo to hi calls, both inclusive.
func (e *Expectation) Between(lo, hi uint64) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		r, err := expectation.Between(lo, hi)
		if err != nil {
			return err
		}
		return x.SetTimes(r)
	})
}

// InSequence appends the expectation to seq.
func (e *Expectation) InSequence(seq *Sequence) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetSequence(seq)
	})
}

// Returns answers with fixed values, checked against the method outputs now.
func (e *Expectation) Returns(values ...any) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		r, err := expectation.LiteralResponse(x.Descriptor(), values...)
		if err != nil {
			return err
		}
		return x.SetResponse(r)
	})
}

// ReturnsDefault answers with the zero value of every output.
func (e *Expectation) ReturnsDefault() *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetResponse(expectation.DefaultResponse())
	})
}

// ReturnsWith computes the answer from the call. An error returned by fn
// makes the call revert with the error message as reason.
func (e *Expectation) ReturnsWith(fn Generator) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetResponse(expectation.GeneratorResponse(fn))
	})
}

// ReturnsError answers with a JSON-RPC error carrying msg. Transactions
// answered this way are not mined.
func (e *Expectation) ReturnsError(msg string) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetResponse(expectation.ErrorResponse(msg))
	})
}

// Reverts reverts without a reason. Transactions are mined with status 0.
func (e *Expectation) Reverts() *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetResponse(expectation.RevertResponse())
	})
}

// RevertsWithReason reverts with an Error(string) payload.
func (e *Expectation) RevertsWithReason(reason string) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetResponse(expectation.RevertWithReason(reason))
	})
}

// Confirmations mines n empty blocks after each accepted transaction.
func (e *Expectation) Confirmations(n uint64) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetConfirmations(n)
	})
}

// Gas sets the gas used by accepted transactions and answered by eth_estimateGas.
func (e *Expectation) Gas(gas uint64) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetGas(gas)
	})
}

// Emits attaches a raw log to the receipts of accepted transactions.
func (e *Expectation) Emits(topics []common.Hash, data []byte) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.AddLog(expectation.Log{Topics: topics, Data: data})
	})
}

// EmitsEvent attaches a log of the named contract event built from args.
func (e *Expectation) EmitsEvent(name string, args ...any) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		topics, data, err := e.contract.inner.Registry.EncodeEvent(name, args...)
		if err != nil {
			return err
		}
		return x.AddLog(expectation.Log{Topics: topics, Data: data})
	})
}

// AllowCalls controls whether eth_call requests can match.
func (e *Expectation) AllowCalls(allow bool) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetAllowCalls(allow)
	})
}

// AllowTransactions controls whether transactions can match.
func (e *Expectation) AllowTransactions(allow bool) *Expectation {
	e.contract.mock.reporter.Helper()
	return e.update(func(x *expectation.Expectation) error {
		return x.SetAllowTransactions(allow)
	})
}
