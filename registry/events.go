package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// EncodeEvent builds the topics and data of a log emitting the named event
// with values given in declaration order, indexed and non-indexed mixed.
func (r *Registry) EncodeEvent(name string, values ...any) ([]common.Hash, []byte, error) {
	event, ok := r.abi.Events[name]
	if !ok {
		return nil, nil, errorsmod.Wrapf(types.ErrConfiguration, "contract has no event %q", name)
	}
	if len(values) != len(event.Inputs) {
		return nil, nil, errorsmod.Wrapf(
			types.ErrConfiguration,
			"event %s has %d fields, got %d", event.Sig, len(event.Inputs), len(values),
		)
	}

	var (
		indexed    []any
		nonIndexed []any
	)
	for i, input := range event.Inputs {
		v, err := Coerce(input.Type, values[i])
		if err != nil {
			return nil, nil, errorsmod.Wrapf(types.ErrConfiguration, "event %s field %q: %s", event.Sig, input.Name, err.Error())
		}
		if input.Indexed {
			indexed = append(indexed, v)
		} else {
			nonIndexed = append(nonIndexed, v)
		}
	}

	var topics []common.Hash
	if !event.Anonymous {
		topics = append(topics, event.ID)
	}
	if len(indexed) > 0 {
		query := make([][]any, len(indexed))
		for i, v := range indexed {
			query[i] = []any{v}
		}
		hashed, err := abi.MakeTopics(query...)
		if err != nil {
			return nil, nil, errorsmod.Wrapf(types.ErrConfiguration, "event %s: %s", event.Sig, err.Error())
		}
		for _, h := range hashed {
			topics = append(topics, h[0])
		}
	}

	data, err := event.Inputs.NonIndexed().Pack(nonIndexed...)
	if err != nil {
		return nil, nil, errorsmod.Wrapf(types.ErrConfiguration, "event %s: %s", event.Sig, err.Error())
	}

	return topics, data, nil
}

// Event returns the named event of the contract.
func (r *Registry) Event(name string) (abi.Event, error) {
	event, ok := r.abi.Events[name]
	if !ok {
		return abi.Event{}, fmt.Errorf("contract has no event %q", name)
	}
	return event, nil
}
