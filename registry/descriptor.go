package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Kind tells apart regular functions from the special fallback and receive entry points.
type Kind uint8

const (
	KindFunction Kind = iota
	KindFallback
	KindReceive
)

// Descriptor is a callable entry point of a registered contract.
type Descriptor struct {
	// Selector is the first four bytes of keccak256(Signature). Zero for fallback and receive.
	Selector [4]byte
	// Signature is the canonical signature, e.g. transfer(address,uint256).
	Signature string
	Method    abi.Method
	Kind      Kind
}

func newDescriptor(method abi.Method, kind Kind) *Descriptor {
	d := &Descriptor{Method: method, Kind: kind}
	switch kind {
	case KindFunction:
		copy(d.Selector[:], method.ID)
		d.Signature = method.Sig
	case KindFallback:
		d.Signature = "fallback()"
	case KindReceive:
		d.Signature = "receive()"
	}
	return d
}

// Name is the ABI name of the method.
func (d *Descriptor) Name() string {
	if d.Kind != KindFunction {
		return d.Signature[:len(d.Signature)-2]
	}
	return d.Method.RawName
}

func (d *Descriptor) Inputs() abi.Arguments  { return d.Method.Inputs }
func (d *Descriptor) Outputs() abi.Arguments { return d.Method.Outputs }

// Payable reports whether the method accepts a non-zero value.
func (d *Descriptor) Payable() bool {
	return d.Method.IsPayable()
}

// View reports whether the method is declared view or pure.
func (d *Descriptor) View() bool {
	return d.Method.IsConstant()
}

func (d *Descriptor) String() string {
	return d.Signature
}

// PackOutputs ABI-encodes values against the output types. Values are coerced
// to the Go representation of each output type first.
func (d *Descriptor) PackOutputs(values ...any) ([]byte, error) {
	outputs := d.Outputs()
	if len(values) != len(outputs) {
		return nil, fmt.Errorf("%s returns %d values, got %d", d.Signature, len(outputs), len(values))
	}

	coerced := make([]any, len(values))
	for i, v := range values {
		c, err := Coerce(outputs[i].Type, v)
		if err != nil {
			return nil, fmt.Errorf("output %d of %s: %w", i, d.Signature, err)
		}
		coerced[i] = c
	}

	return outputs.Pack(coerced...)
}

// ZeroOutputs returns the default value of every output: zero numbers and
// addresses, false, empty bytes, strings and slices, fixed arrays and tuples
// filled recursively.
func (d *Descriptor) ZeroOutputs() []any {
	outputs := d.Outputs()
	values := make([]any, len(outputs))
	for i, out := range outputs {
		values[i] = ZeroValue(out.Type)
	}
	return values
}

// UnpackOutputs decodes return data of the method.
func (d *Descriptor) UnpackOutputs(data []byte) ([]any, error) {
	return d.Outputs().Unpack(data)
}
