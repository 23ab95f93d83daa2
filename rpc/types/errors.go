package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RevertError is returned for calls whose expectation reverts. It carries the
// revert payload the way go-ethereum nodes do.
type RevertError struct {
	reason string
	data   []byte
}

// NewRevertError builds a revert error. Reason may be empty.
func NewRevertError(reason string, data []byte) *RevertError {
	return &RevertError{reason: reason, data: data}
}

func (e *RevertError) Error() string {
	if e.reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.reason
}

// ErrorCode returns the JSON-RPC error code for a revert.
func (e *RevertError) ErrorCode() int {
	return ErrCodeReverted
}

// ErrorData returns the hex encoded revert payload.
func (e *RevertError) ErrorData() any {
	if len(e.data) == 0 {
		return nil
	}
	return hexutil.Encode(e.data)
}

// CallError is an error a test asked the node to answer with.
type CallError struct {
	msg string
}

func NewCallError(msg string) *CallError {
	return &CallError{msg: msg}
}

func (e *CallError) Error() string  { return e.msg }
func (e *CallError) ErrorCode() int { return ErrCodeServer }
