package expectation

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/encoding"
	"github.com/cosmos/evmmock/registry"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// ResponseKind tags the response rule of an expectation.
type ResponseKind uint8

const (
	ResponseDefault ResponseKind = iota
	ResponseLiteral
	ResponseGenerator
	ResponseRevert
	ResponseError
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseLiteral:
		return "literal"
	case ResponseGenerator:
		return "generator"
	case ResponseRevert:
		return "revert"
	case ResponseError:
		return "error"
	default:
		return "default"
	}
}

// Generator computes return values for a call. A returned error reverts the
// call with the error message as reason.
type Generator func(ctx *types.CallContext) ([]any, error)

// Response is the rule producing the result of an accepted call.
type Response struct {
	kind      ResponseKind
	literal   []byte
	generator Generator
	reason    string
	hasReason bool
	message   string
}

func (r Response) Kind() ResponseKind { return r.kind }

// DefaultResponse returns zero values of the method outputs.
func DefaultResponse() Response {
	return Response{kind: ResponseDefault}
}

// LiteralResponse encodes values against the outputs of d right away, so a
// mismatch is reported where the expectation is built.
func LiteralResponse(d *registry.Descriptor, values ...any) (Response, error) {
	data, err := d.PackOutputs(values...)
	if err != nil {
		return Response{}, errorsmod.Wrapf(types.ErrConfiguration, "invalid return value for %s: %s", d, err.Error())
	}
	return Response{kind: ResponseLiteral, literal: data}, nil
}

// GeneratorResponse computes the result on every call.
func GeneratorResponse(fn Generator) Response {
	return Response{kind: ResponseGenerator, generator: fn}
}

// RevertResponse reverts without a reason.
func RevertResponse() Response {
	return Response{kind: ResponseRevert}
}

// RevertWithReason reverts with an Error(string) payload.
func RevertWithReason(reason string) Response {
	return Response{kind: ResponseRevert, reason: reason, hasReason: true}
}

// ErrorResponse fails the JSON-RPC request with msg. Nothing is mined.
func ErrorResponse(msg string) Response {
	return Response{kind: ResponseError, message: msg}
}

// Status is the result class of an evaluated response.
type Status uint8

const (
	StatusOK Status = iota
	StatusReverted
	StatusError
)

// Log is an event emitted by an accepted transaction.
type Log struct {
	Topics []common.Hash
	Data   []byte
}

// Outcome is the evaluated response of an expectation.
type Outcome struct {
	Status Status
	// Output is the ABI-encoded return data when Status is StatusOK.
	Output []byte
	// RevertData is the Error(string) payload, empty for reverts without reason.
	RevertData   []byte
	RevertReason string
	HasReason    bool
	// Message is the JSON-RPC error message when Status is StatusError.
	Message string

	Confirmations uint64
	// Gas is the gas used by the transaction, nil means the gas limit of the call.
	Gas  *uint64
	Logs []Log

	// Expectation describes the expectation that produced the outcome.
	Expectation string
}

func (o *Outcome) revert(reason string, hasReason bool) {
	o.Status = StatusReverted
	o.RevertReason = reason
	o.HasReason = hasReason
	if hasReason {
		o.RevertData = encoding.PackRevert(reason)
	}
}
