package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Args is a decoded argument tuple of a contract method call.
type Args interface {
	// Len returns the number of decoded arguments.
	Len() int
	// At returns the i-th argument in its ABI Go representation.
	At(i int) any
	// Named returns the argument with the given ABI name.
	Named(name string) (any, bool)
	// Values returns all arguments in declaration order.
	Values() []any
	// Copy copies the arguments into a struct pointer (or a pointer to the single argument).
	Copy(v any) error
	String() string
}

// CallContext describes the call an expectation is being evaluated against.
type CallContext struct {
	// IsViewCall is true for eth_call, false for transactions and their gas estimation.
	IsViewCall bool
	// Index is the number of times the expectation accepted a call before this one.
	Index uint64
	// From is the caller. For view calls without a from field it is the zero address.
	From     common.Address
	To       common.Address
	Nonce    uint64
	Gas      uint64
	GasPrice *uint256.Int
	Value    *uint256.Int
	Args     Args
}

// HasValue reports whether the call transfers a non-zero amount.
func (c *CallContext) HasValue() bool {
	return c.Value != nil && !c.Value.IsZero()
}
