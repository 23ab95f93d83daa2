// Package evmmock is an in-process mock of an Ethereum JSON-RPC node for
// testing code that talks to contracts. Tests deploy contract interfaces,
// set expectations on their methods and hand the mock's client to the code
// under test. Unmet expectations fail the test when it finishes.
package evmmock

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	"github.com/cosmos/evmmock/chain"
	"github.com/cosmos/evmmock/config"
	"github.com/cosmos/evmmock/expectation"
	"github.com/cosmos/evmmock/metrics"
	"github.com/cosmos/evmmock/registry"
	"github.com/cosmos/evmmock/rpc"
	"github.com/cosmos/evmmock/rpc/backend"
	"github.com/cosmos/evmmock/types"

	"cosmossdk.io/log"
)

type (
	// Reporter receives test failures; *testing.T implements it.
	Reporter = types.Reporter
	// CallContext describes the call an expectation is evaluated against.
	CallContext = types.CallContext
	// Args is a decoded argument tuple.
	Args = types.Args
	// Sequence orders expectations, possibly across contracts.
	Sequence = expectation.Sequence
	// Generator computes return values from the call.
	Generator = expectation.Generator
)

// NewSequence returns an empty sequence.
func NewSequence() *Sequence {
	return expectation.NewSequence()
}

type cleanuper interface {
	Cleanup(func())
}

// Mock is a mock Ethereum node.
type Mock struct {
	reporter Reporter
	logger   log.Logger
	recorder *metrics.Recorder
	server   *rpc.Server
	backend  *backend.Backend
	// contracts is guarded by the server lock.
	contracts []*Contract

	clientOnce sync.Once
	rpcClient  *gethrpc.Client
	clientErr  error

	finishOnce sync.Once
}

// New creates a node for chainID. Failures are reported to t; when t has a
// Cleanup method, Finish runs automatically at the end of the test.
func New(t Reporter, chainID uint64, opts ...Option) *Mock {
	if t == nil {
		t = panicReporter{}
	}
	t.Helper()

	o := options{cfg: config.DefaultConfig(), logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	o.cfg.ChainID = chainID
	if err := o.cfg.Validate(); err != nil {
		t.Fatalf("invalid mock node config: %s", err)
	}
	gasPrice, err := o.cfg.GasPriceValue()
	if err != nil {
		t.Fatalf("invalid mock node config: %s", err)
	}
	if o.registry == nil {
		o.registry = gethmetrics.NewRegistry()
	}

	logger := o.logger.With("chain_id", chainID)
	recorder := metrics.NewRecorder(o.registry)
	state := chain.New(logger, chain.Params{
		ChainID:       chainID,
		GasPrice:      gasPrice,
		GenesisTime:   o.cfg.GenesisTime,
		BlockTime:     o.cfg.BlockTime,
		BlockGasLimit: o.cfg.BlockGasLimit,
	})
	b := backend.NewBackend(logger, state, backend.Config{
		EstimateGas: o.cfg.EstimateGas,
		CallGas:     o.cfg.CallGas,
	}, recorder)

	m := &Mock{
		reporter: t,
		logger:   logger,
		recorder: recorder,
		backend:  b,
		server:   rpc.NewServer(logger, b, t, recorder),
	}

	if c, ok := t.(cleanuper); ok {
		c.Cleanup(func() {
			t.Helper()
			m.Finish()
		})
	}
	return m
}

// ChainID returns the chain id of the node.
func (m *Mock) ChainID() uint64 {
	return m.backend.Chain().ChainID()
}

// BlockNumber returns the number of the latest block.
func (m *Mock) BlockNumber() uint64 {
	var n uint64
	m.server.WithBackend(func(b *backend.Backend) {
		n = b.Chain().BlockNumber()
	})
	return n
}

// Nonce returns the next nonce of an account.
func (m *Mock) Nonce(addr common.Address) uint64 {
	var n uint64
	m.server.WithBackend(func(b *backend.Backend) {
		n = b.Chain().Nonce(addr)
	})
	return n
}

// UpdateGasPrice changes the gas price answered by eth_gasPrice.
func (m *Mock) UpdateGasPrice(price *big.Int) {
	m.reporter.Helper()
	if price == nil {
		m.reporter.Fatalf("invalid gas price: nil")
		return
	}
	p, overflow := uint256.FromBig(price)
	if price.Sign() < 0 || overflow {
		m.reporter.Fatalf("invalid gas price %s", price)
		return
	}
	m.server.WithBackend(func(b *backend.Backend) {
		b.Chain().SetGasPrice(p)
	})
}

// Deploy places a contract with the given JSON interface at a new address.
func (m *Mock) Deploy(abiJSON []byte) *Contract {
	m.reporter.Helper()
	reg, err := registry.Parse(bytes.NewReader(abiJSON))
	if err != nil {
		m.reporter.Fatalf("%s", err)
		return nil
	}
	return m.deploy(reg)
}

// DeployABI places a contract with a parsed interface at a new address.
func (m *Mock) DeployABI(contractABI abi.ABI) *Contract {
	m.reporter.Helper()
	reg, err := registry.New(contractABI)
	if err != nil {
		m.reporter.Fatalf("%s", err)
		return nil
	}
	return m.deploy(reg)
}

func (m *Mock) deploy(reg *registry.Registry) *Contract {
	c := &Contract{mock: m}
	m.server.WithBackend(func(b *backend.Backend) {
		c.inner = b.Deploy(reg)
		m.contracts = append(m.contracts, c)
	})
	return c
}

// Handler returns the node as an http.Handler.
func (m *Mock) Handler() http.Handler {
	return m.server
}

// Transport returns an http.RoundTripper delivering requests to the node
// without a network.
func (m *Mock) Transport() http.RoundTripper {
	return rpc.NewTransport(m.server)
}

// RPCClient returns a go-ethereum RPC client connected to the node.
func (m *Mock) RPCClient() *gethrpc.Client {
	m.reporter.Helper()
	m.clientOnce.Do(func() {
		m.rpcClient, m.clientErr = rpc.DialInProc(context.Background(), m.server)
	})
	if m.clientErr != nil {
		m.reporter.Fatalf("can't connect to mock node: %s", m.clientErr)
	}
	return m.rpcClient
}

// Client returns an ethclient connected to the node.
func (m *Mock) Client() *ethclient.Client {
	m.reporter.Helper()
	return ethclient.NewClient(m.RPCClient())
}

// Verify checks every expectation of every contract and sequence without
// clearing anything. The result joins all failures.
func (m *Mock) Verify() error {
	var errs []error
	m.server.WithBackend(func(b *backend.Backend) {
		errs = verifyContracts(b.Contracts())
	})
	return errors.Join(errs...)
}

func verifyContracts(contracts []*backend.Contract) []error {
	var (
		errs []error
		seqs []*expectation.Sequence
	)
	for _, c := range contracts {
		errs = append(errs, c.Store.Verify()...)
		for _, seq := range c.Store.Sequences() {
			if !containsSeq(seqs, seq) {
				seqs = append(seqs, seq)
			}
		}
	}
	for _, seq := range seqs {
		if err := seq.Verify(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func containsSeq(seqs []*expectation.Sequence, seq *expectation.Sequence) bool {
	for _, s := range seqs {
		if s == seq {
			return true
		}
	}
	return false
}

// Checkpoint verifies all expectations, reports failures and then removes
// every expectation. Builders obtained before the checkpoint become invalid.
func (m *Mock) Checkpoint() {
	m.reporter.Helper()
	var errs []error
	m.server.WithBackend(func(b *backend.Backend) {
		errs = verifyContracts(b.Contracts())
		for _, c := range m.contracts {
			c.clear()
		}
	})
	m.report(errs)
}

// Finish verifies all expectations and reports failures. It runs once; New
// registers it as a test cleanup when possible.
func (m *Mock) Finish() {
	m.reporter.Helper()
	m.finishOnce.Do(func() {
		var errs []error
		m.server.WithBackend(func(b *backend.Backend) {
			errs = verifyContracts(b.Contracts())
		})
		m.report(errs)
		if m.rpcClient != nil {
			m.rpcClient.Close()
		}
	})
}

func (m *Mock) report(errs []error) {
	if len(errs) == 0 {
		return
	}
	m.reporter.Helper()
	m.logger.Error("mock verification failed", "failures", len(errs))
	m.reporter.Errorf("mock verification failed:\n%s", errors.Join(errs...))
}

// panicReporter is used when New is given no reporter.
type panicReporter struct{}

func (panicReporter) Errorf(format string, args ...any) { panic(fmt.Sprintf(format, args...)) }
func (panicReporter) Fatalf(format string, args ...any) { panic(fmt.Sprintf(format, args...)) }
func (panicReporter) Helper()                           {}
