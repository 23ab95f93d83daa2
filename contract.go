package evmmock

import (
	"fmt"
	"runtime"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/rpc/backend"
)

// Contract is a contract deployed into a Mock.
type Contract struct {
	mock  *Mock
	inner *backend.Contract
	// generation counts checkpoints; guarded by the server lock.
	generation uint64
}

// Address returns the address the contract is deployed at.
func (c *Contract) Address() common.Address {
	return c.inner.Address
}

// ABI returns the contract interface.
func (c *Contract) ABI() abi.ABI {
	return c.inner.Registry.ABI()
}

// Pack encodes a call to method, a signature, a name or a 0x-prefixed selector.
func (c *Contract) Pack(method string, args ...any) []byte {
	c.mock.reporter.Helper()
	data, err := c.inner.Registry.EncodeCall(method, args...)
	if err != nil {
		c.mock.reporter.Fatalf("can't encode call to %s: %s", method, err)
		return nil
	}
	return data
}

// Expect adds an expectation for method, accepting both calls and
// transactions. Method is a signature like "transfer(address,uint256)", a
// unique name, a 0x-prefixed selector, "fallback" or "receive".
func (c *Contract) Expect(method string) *Expectation {
	c.mock.reporter.Helper()
	return c.expect(method, callerInfo(2), true, true)
}

// ExpectCall adds an expectation that only accepts eth_call requests.
func (c *Contract) ExpectCall(method string) *Expectation {
	c.mock.reporter.Helper()
	return c.expect(method, callerInfo(2), true, false)
}

// ExpectTransaction adds an expectation that only accepts transactions.
func (c *Contract) ExpectTransaction(method string) *Expectation {
	c.mock.reporter.Helper()
	return c.expect(method, callerInfo(2), false, true)
}

func (c *Contract) expect(method, location string, calls, transactions bool) *Expectation {
	c.mock.reporter.Helper()

	d, err := c.inner.Registry.Resolve(method)
	if err != nil {
		c.mock.reporter.Fatalf("%s", err)
		return nil
	}

	e := &Expectation{contract: c}
	c.mock.server.WithBackend(func(*backend.Backend) {
		e.inner = c.inner.Store.Add(d, location)
		e.generation = c.generation
		err = e.inner.SetAllowCalls(calls)
		if err == nil {
			err = e.inner.SetAllowTransactions(transactions)
		}
	})
	if err != nil {
		c.mock.reporter.Fatalf("%s", err)
	}
	return e
}

// Checkpoint verifies the expectations of this contract, reports failures and
// removes them.
func (c *Contract) Checkpoint() {
	c.mock.reporter.Helper()
	var errs []error
	c.mock.server.WithBackend(func(*backend.Backend) {
		errs = verifyContracts([]*backend.Contract{c.inner})
		c.clear()
	})
	c.mock.report(errs)
}

// clear must be called with the server lock held.
func (c *Contract) clear() {
	c.inner.Store.Clear()
	c.generation++
}

// callerInfo returns the file:line of the caller skip frames up.
func callerInfo(skip int) string {
	if _, file, line, ok := runtime.Caller(skip); ok {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return "unknown file"
}

