package evmmock

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/cosmos/evmmock/config"
	"github.com/cosmos/evmmock/expectation"
	"github.com/cosmos/evmmock/registry"
	"github.com/cosmos/evmmock/rpc/backend"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// LoadScenario deploys the contracts of s and sets their expectations.
// Expectations naming the same sequence share one Sequence. Contracts are
// returned by name.
func (m *Mock) LoadScenario(s *config.Scenario) (map[string]*Contract, error) {
	if err := s.Validate(); err != nil {
		return nil, errorsmod.Wrap(types.ErrConfiguration, err.Error())
	}

	regs := make([]*registry.Registry, len(s.Contracts))
	for i, spec := range s.Contracts {
		reg, err := registry.ParseJSON(spec.ABIJSON)
		if err != nil {
			return nil, errorsmod.Wrapf(types.ErrConfiguration, "contract %q: %s", spec.Name, err.Error())
		}
		regs[i] = reg
	}

	contracts := make(map[string]*Contract, len(s.Contracts))
	seqs := make(map[string]*Sequence)

	var err error
	m.server.WithBackend(func(b *backend.Backend) {
		for i, spec := range s.Contracts {
			c := &Contract{mock: m, inner: b.Deploy(regs[i])}
			m.contracts = append(m.contracts, c)
			contracts[spec.Name] = c

			for j, es := range spec.Expectations {
				location := fmt.Sprintf("%s expectation %d", spec.Name, j)
				if err = applyExpectation(c, es, location, seqs); err != nil {
					err = errorsmod.Wrapf(types.ErrConfiguration, "%s: %s", location, err.Error())
					return
				}
			}
			m.logger.Info(
				"deployed scenario contract",
				"name", spec.Name,
				"address", c.Address().Hex(),
				"expectations", len(spec.Expectations),
			)
		}
	})
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// applyExpectation must be called with the server lock held.
func applyExpectation(c *Contract, es config.ExpectationSpec, location string, seqs map[string]*Sequence) error {
	reg := c.inner.Registry
	d, err := reg.Resolve(es.Method)
	if err != nil {
		return err
	}
	e := c.inner.Store.Add(d, location)

	if es.Args != nil {
		p, err := expectation.Values(d, config.Values(es.Args)...)
		if err != nil {
			return err
		}
		if err := e.SetPredicate(p); err != nil {
			return err
		}
	}

	if es.Times != nil {
		r, err := timesRange(es.Times)
		if err != nil {
			return err
		}
		if err := e.SetTimes(r); err != nil {
			return err
		}
	}

	if es.Sequence != "" {
		seq, ok := seqs[es.Sequence]
		if !ok {
			seq = NewSequence()
			seqs[es.Sequence] = seq
		}
		if err := e.SetSequence(seq); err != nil {
			return err
		}
	}

	var response *expectation.Response
	switch {
	case es.Returns != nil:
		r, err := expectation.LiteralResponse(d, config.Values(es.Returns)...)
		if err != nil {
			return err
		}
		response = &r
	case es.Revert != nil:
		r := expectation.RevertWithReason(*es.Revert)
		response = &r
	case es.Reverts:
		r := expectation.RevertResponse()
		response = &r
	case es.Error != nil:
		r := expectation.ErrorResponse(*es.Error)
		response = &r
	}
	if response != nil {
		if err := e.SetResponse(*response); err != nil {
			return err
		}
	}

	if es.Confirmations > 0 {
		if err := e.SetConfirmations(es.Confirmations); err != nil {
			return err
		}
	}
	if es.Gas != nil {
		if err := e.SetGas(*es.Gas); err != nil {
			return err
		}
	}

	for i, ev := range es.Emits {
		l, err := scenarioLog(reg, ev)
		if err != nil {
			return fmt.Errorf("log %d: %w", i, err)
		}
		if err := e.AddLog(l); err != nil {
			return err
		}
	}

	if es.AllowCalls != nil {
		if err := e.SetAllowCalls(*es.AllowCalls); err != nil {
			return err
		}
	}
	if es.AllowTransactions != nil {
		if err := e.SetAllowTransactions(*es.AllowTransactions); err != nil {
			return err
		}
	}
	return nil
}

func timesRange(t *config.TimesSpec) (expectation.TimesRange, error) {
	switch {
	case t.Exactly != nil:
		return expectation.Times(*t.Exactly), nil
	case t.Max != nil:
		return expectation.Between(t.Min, *t.Max)
	default:
		return expectation.AtLeast(t.Min), nil
	}
}

func scenarioLog(reg *registry.Registry, ev config.EventSpec) (expectation.Log, error) {
	if ev.Event != "" {
		topics, data, err := reg.EncodeEvent(ev.Event, config.Values(ev.Args)...)
		if err != nil {
			return expectation.Log{}, err
		}
		return expectation.Log{Topics: topics, Data: data}, nil
	}

	topics := make([]common.Hash, len(ev.Topics))
	for i, t := range ev.Topics {
		bz, err := hexutil.Decode(t)
		if err != nil || len(bz) != common.HashLength {
			return expectation.Log{}, fmt.Errorf("topic %d is not a 32 byte hex string: %q", i, t)
		}
		topics[i] = common.BytesToHash(bz)
	}

	var data []byte
	if ev.Data != "" {
		var err error
		if data, err = hexutil.Decode(ev.Data); err != nil {
			return expectation.Log{}, fmt.Errorf("invalid log data %q: %w", ev.Data, err)
		}
	}
	return expectation.Log{Topics: topics, Data: data}, nil
}
