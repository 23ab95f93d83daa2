package registry

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/types"
)

var _ types.Args = (*decodedArgs)(nil)

// decodedArgs is the decoded argument tuple of a call.
type decodedArgs struct {
	arguments abi.Arguments
	values    []any
}

func newArgs(arguments abi.Arguments, values []any) *decodedArgs {
	return &decodedArgs{arguments: arguments, values: values}
}

// NewArgs wraps already decoded values, e.g. to evaluate predicates in tests.
func NewArgs(arguments abi.Arguments, values ...any) types.Args {
	return newArgs(arguments, values)
}

func (a *decodedArgs) Len() int { return len(a.values) }

func (a *decodedArgs) At(i int) any { return a.values[i] }

func (a *decodedArgs) Values() []any {
	out := make([]any, len(a.values))
	copy(out, a.values)
	return out
}

func (a *decodedArgs) Named(name string) (any, bool) {
	for i, arg := range a.arguments {
		if arg.Name == name && i < len(a.values) {
			return a.values[i], true
		}
	}
	return nil, false
}

func (a *decodedArgs) Copy(v any) error {
	return a.arguments.Copy(v, a.values)
}

// String renders the tuple as (v1, v2, ...) for error messages.
func (a *decodedArgs) String() string {
	parts := make([]string, len(a.values))
	for i, v := range a.values {
		parts[i] = formatValue(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v any) string {
	switch v := v.(type) {
	case common.Address:
		return v.Hex()
	case []byte:
		return fmt.Sprintf("0x%x", v)
	case string:
		return fmt.Sprintf("%q", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
