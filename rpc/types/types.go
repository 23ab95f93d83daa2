package types

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// JSON-RPC error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeServer         = -32000
	// ErrCodeReverted is what go-ethereum answers for reverted calls.
	ErrCodeReverted = 3
)

// Version is the JSON-RPC protocol version.
const Version = "2.0"

// Request is a JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response. Result is kept raw so a null result is
// written as null rather than omitted.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is a JSON-RPC error.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ErrorObject) Error() string {
	return e.Message
}

// CallArgs are the arguments of eth_call and eth_estimateGas.
type CallArgs struct {
	From                 *common.Address `json:"from"`
	To                   *common.Address `json:"to"`
	Gas                  *hexutil.Uint64 `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                *hexutil.Uint64 `json:"nonce"`

	// Input is the newer name of Data, both are accepted.
	Data  *hexutil.Bytes `json:"data"`
	Input *hexutil.Bytes `json:"input"`
}

// CallData returns the input, preferring the input field over data.
func (args *CallArgs) CallData() []byte {
	if args.Input != nil {
		return *args.Input
	}
	if args.Data != nil {
		return *args.Data
	}
	return nil
}

// FromAddress returns the caller or the zero address.
func (args *CallArgs) FromAddress() common.Address {
	if args.From == nil {
		return common.Address{}
	}
	return *args.From
}

// GasLimit returns the gas field or def when unset.
func (args *CallArgs) GasLimit(def uint64) uint64 {
	if args.Gas == nil {
		return def
	}
	return uint64(*args.Gas)
}

// ValueBig returns the transferred value, zero when unset.
func (args *CallArgs) ValueBig() *big.Int {
	if args.Value == nil {
		return new(big.Int)
	}
	return args.Value.ToInt()
}

// GasPriceBig returns the gas price, falling back to maxFeePerGas, then def.
func (args *CallArgs) GasPriceBig(def *big.Int) *big.Int {
	switch {
	case args.GasPrice != nil:
		return args.GasPrice.ToInt()
	case args.MaxFeePerGas != nil:
		return args.MaxFeePerGas.ToInt()
	default:
		return def
	}
}
