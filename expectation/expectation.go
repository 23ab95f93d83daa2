package expectation

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/registry"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// Expectation binds a call pattern of one contract method to a response and a
// cardinality. Once it has been evaluated against a call it can't be changed.
type Expectation struct {
	id       uint64
	desc     *registry.Descriptor
	contract common.Address
	location string

	predicate         Predicate
	times             TimesRange
	seq               *Sequence
	seqIndex          int
	response          Response
	confirmations     uint64
	gas               *uint64
	logs              []Log
	allowCalls        bool
	allowTransactions bool

	callCount uint64
	used      bool
}

func (e *Expectation) ID() uint64                       { return e.id }
func (e *Expectation) Descriptor() *registry.Descriptor { return e.desc }
func (e *Expectation) Location() string                 { return e.location }
func (e *Expectation) CallCount() uint64                { return e.callCount }
func (e *Expectation) Times() TimesRange                { return e.times }
func (e *Expectation) Sequence() *Sequence              { return e.seq }
func (e *Expectation) ResponseKind() ResponseKind       { return e.response.kind }

// Gas returns the configured gas usage.
func (e *Expectation) Gas() (uint64, bool) {
	if e.gas == nil {
		return 0, false
	}
	return *e.gas, true
}

func (e *Expectation) String() string {
	return fmt.Sprintf("%s on contract %s", e.desc.Signature, e.contract.Hex())
}

func (e *Expectation) satisfied() bool {
	return e.times.Satisfied(e.callCount)
}

func (e *Expectation) checkMutable() error {
	if e.used {
		return errorsmod.Wrapf(
			types.ErrConfiguration,
			"expectation for %s (set at %s) was already used and can't be changed", e, e.location,
		)
	}
	return nil
}

// SetPredicate replaces the argument filter.
func (e *Expectation) SetPredicate(p Predicate) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	if err := p.CheckArity(len(e.desc.Inputs())); err != nil {
		return errorsmod.Wrapf(types.ErrConfiguration, "%s: %s", e.desc, err.Error())
	}
	e.predicate = p
	return nil
}

// SetTimes replaces the cardinality.
func (e *Expectation) SetTimes(r TimesRange) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	if r.upper <= r.lower {
		return errorsmod.Wrapf(types.ErrConfiguration, "invalid times range for %s", e.desc)
	}
	e.times = r
	return nil
}

// SetSequence appends the expectation to s. An expectation joins at most one sequence.
func (e *Expectation) SetSequence(s *Sequence) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	if e.seq != nil {
		return errorsmod.Wrapf(types.ErrConfiguration, "expectation for %s can't be in multiple sequences", e)
	}
	idx, err := s.add(e)
	if err != nil {
		return err
	}
	e.seq, e.seqIndex = s, idx
	return nil
}

// SetResponse replaces the response rule.
func (e *Expectation) SetResponse(r Response) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.response = r
	return nil
}

// SetConfirmations sets the number of empty blocks mined after an accepted transaction.
func (e *Expectation) SetConfirmations(n uint64) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.confirmations = n
	return nil
}

// SetGas sets the gas reported by estimates and receipts.
func (e *Expectation) SetGas(gas uint64) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.gas = &gas
	return nil
}

// AddLog appends a log emitted by accepted transactions.
func (e *Expectation) AddLog(l Log) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.logs = append(e.logs, Log{Topics: slices.Clone(l.Topics), Data: slices.Clone(l.Data)})
	return nil
}

// SetAllowCalls controls whether eth_call and eth_estimateGas can match.
func (e *Expectation) SetAllowCalls(allow bool) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.allowCalls = allow
	return nil
}

// SetAllowTransactions controls whether mined transactions can match.
func (e *Expectation) SetAllowTransactions(allow bool) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.allowTransactions = allow
	return nil
}

func (e *Expectation) admitsKind(ctx *types.CallContext) bool {
	if ctx.IsViewCall {
		return e.allowCalls
	}
	return e.allowTransactions
}

// Evaluate runs the response rule. Generators see ctx with Index set to the
// number of calls accepted before this one.
func (e *Expectation) Evaluate(ctx *types.CallContext) (*Outcome, error) {
	out := &Outcome{
		Status:        StatusOK,
		Confirmations: e.confirmations,
		Gas:           e.gas,
		Logs:          slices.Clone(e.logs),
		Expectation:   e.String(),
	}

	switch e.response.kind {
	case ResponseDefault:
		data, err := e.desc.PackOutputs(e.desc.ZeroOutputs()...)
		if err != nil {
			return nil, errorsmod.Wrapf(types.ErrConfiguration, "can't encode default values for %s: %s", e.desc, err.Error())
		}
		out.Output = data

	case ResponseLiteral:
		out.Output = slices.Clone(e.response.literal)

	case ResponseGenerator:
		values, err := e.response.generator(ctx)
		if err != nil {
			out.revert(err.Error(), true)
			return out, nil
		}
		data, err := e.desc.PackOutputs(values...)
		if err != nil {
			return nil, errorsmod.Wrapf(
				types.ErrConfiguration,
				"generator for %s (set at %s) returned invalid values: %s", e, e.location, err.Error(),
			)
		}
		out.Output = data

	case ResponseRevert:
		out.revert(e.response.reason, e.response.hasReason)

	case ResponseError:
		out.Status = StatusError
		out.Message = e.response.message
	}

	return out, nil
}
