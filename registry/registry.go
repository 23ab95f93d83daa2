// Package registry indexes the functions of a contract ABI by selector and
// converts call data and return values between bytes and Go values.
package registry

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// Registry holds the callable entry points of one contract.
type Registry struct {
	abi        abi.ABI
	bySelector map[[4]byte]*Descriptor
	bySig      map[string]*Descriptor
	byName     map[string][]*Descriptor
	fallback   *Descriptor
	receive    *Descriptor
}

// Parse reads a JSON ABI and builds its registry.
func Parse(r io.Reader) (*Registry, error) {
	parsed, err := abi.JSON(r)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrConfiguration, "can't parse contract abi: %s", err.Error())
	}
	return New(parsed)
}

// ParseJSON is Parse over an in-memory ABI.
func ParseJSON(data []byte) (*Registry, error) {
	return Parse(bytes.NewReader(data))
}

// New indexes every function of contractABI. Two functions sharing a selector make the ABI invalid.
func New(contractABI abi.ABI) (*Registry, error) {
	reg := &Registry{
		abi:        contractABI,
		bySelector: make(map[[4]byte]*Descriptor, len(contractABI.Methods)),
		bySig:      make(map[string]*Descriptor, len(contractABI.Methods)),
		byName:     make(map[string][]*Descriptor),
	}

	// map iteration order is random, sort for stable overload lists
	names := make([]string, 0, len(contractABI.Methods))
	for name := range contractABI.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d := newDescriptor(contractABI.Methods[name], KindFunction)
		if prev, ok := reg.bySelector[d.Selector]; ok {
			return nil, errorsmod.Wrapf(
				types.ErrConfiguration,
				"invalid abi: %s and %s share selector 0x%x", prev.Signature, d.Signature, d.Selector,
			)
		}
		reg.bySelector[d.Selector] = d
		reg.bySig[d.Signature] = d
		reg.byName[d.Method.RawName] = append(reg.byName[d.Method.RawName], d)
	}

	if contractABI.HasFallback() {
		reg.fallback = newDescriptor(contractABI.Fallback, KindFallback)
	}
	if contractABI.HasReceive() {
		reg.receive = newDescriptor(contractABI.Receive, KindReceive)
	}

	return reg, nil
}

// ABI returns the parsed contract interface.
func (r *Registry) ABI() abi.ABI {
	return r.abi
}

// Lookup returns the function with the given selector.
func (r *Registry) Lookup(selector [4]byte) (*Descriptor, bool) {
	d, ok := r.bySelector[selector]
	return d, ok
}

// Resolve finds a descriptor by canonical signature ("transfer(address,uint256)"),
// by name when the name isn't overloaded, by hex selector ("0xa9059cbb"), or
// by the special names "fallback" and "receive".
func (r *Registry) Resolve(signature string) (*Descriptor, error) {
	signature = strings.TrimSpace(signature)

	switch signature {
	case "fallback", "fallback()":
		if r.fallback == nil {
			return nil, errorsmod.Wrap(types.ErrConfiguration, "contract has no fallback function")
		}
		return r.fallback, nil
	case "receive", "receive()":
		if r.receive == nil {
			return nil, errorsmod.Wrap(types.ErrConfiguration, "contract has no receive function")
		}
		return r.receive, nil
	}

	if d, ok := r.bySig[signature]; ok {
		return d, nil
	}

	if strings.HasPrefix(signature, "0x") && len(signature) == 10 {
		if raw, err := hex.DecodeString(signature[2:]); err == nil {
			if d, ok := r.Lookup([4]byte(raw)); ok {
				return d, nil
			}
		}
	}

	switch overloads := r.byName[signature]; len(overloads) {
	case 0:
		return nil, errorsmod.Wrapf(types.ErrConfiguration, "contract has no function %q", signature)
	case 1:
		return overloads[0], nil
	default:
		sigs := make([]string, len(overloads))
		for i, d := range overloads {
			sigs[i] = d.Signature
		}
		return nil, errorsmod.Wrapf(
			types.ErrConfiguration,
			"function %q is overloaded, use one of %s", signature, strings.Join(sigs, ", "),
		)
	}
}

// Decode splits call data into a selector and arguments and decodes them.
// Empty data targets receive when the contract has one, fallback otherwise.
func (r *Registry) Decode(data []byte) (*Descriptor, types.Args, error) {
	if len(data) == 0 {
		switch {
		case r.receive != nil:
			return r.receive, newArgs(nil, nil), nil
		case r.fallback != nil:
			return r.fallback, newArgs(nil, nil), nil
		}
		return nil, nil, errorsmod.Wrap(types.ErrDecoding, "empty call data and the contract has no fallback function")
	}

	if len(data) < 4 {
		return nil, nil, errorsmod.Wrapf(types.ErrDecoding, "call data 0x%x is shorter than a selector", data)
	}

	d, ok := r.Lookup([4]byte(data[:4]))
	if !ok {
		return nil, nil, errorsmod.Wrapf(types.ErrDecoding, "unknown selector 0x%x", data[:4])
	}

	values, err := d.Inputs().Unpack(data[4:])
	if err != nil {
		return nil, nil, errorsmod.Wrapf(types.ErrDecoding, "can't decode arguments of %s: %s", d.Signature, err.Error())
	}

	return d, newArgs(d.Inputs(), values), nil
}

// Descriptors returns every function, ordered by signature.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.bySig))
	for _, d := range r.bySig {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out
}

// EncodeCall packs a call to the given function, coercing arguments to the input types.
func (r *Registry) EncodeCall(signature string, args ...any) ([]byte, error) {
	d, err := r.Resolve(signature)
	if err != nil {
		return nil, err
	}
	if d.Kind != KindFunction {
		if len(args) != 0 {
			return nil, fmt.Errorf("%s takes no arguments", d.Signature)
		}
		return nil, nil
	}

	inputs := d.Inputs()
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", d.Signature, len(inputs), len(args))
	}
	coerced := make([]any, len(args))
	for i, arg := range args {
		if coerced[i], err = Coerce(inputs[i].Type, arg); err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i, d.Signature, err)
		}
	}

	packed, err := inputs.Pack(coerced...)
	if err != nil {
		return nil, err
	}
	return append(d.Selector[:], packed...), nil
}
