// Package backend implements the JSON-RPC methods of the mock node over the
// chain state and the expectation stores of the deployed contracts. It is not
// safe for concurrent use; the server serializes access.
package backend

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cosmos/evmmock/chain"
	"github.com/cosmos/evmmock/expectation"
	"github.com/cosmos/evmmock/metrics"
	"github.com/cosmos/evmmock/registry"

	"cosmossdk.io/log"
)

// Default gas values used when neither the request nor the expectation sets one.
const (
	DefaultEstimateGas uint64 = 1_000_000
	DefaultCallGas     uint64 = 50_000_000
)

// Config holds the gas defaults of the backend.
type Config struct {
	// EstimateGas is answered by eth_estimateGas when the matched expectation sets no gas.
	EstimateGas uint64
	// CallGas is the gas limit of eth_call requests without a gas field.
	CallGas uint64
}

// Contract is a deployed mock contract.
type Contract struct {
	Address  common.Address
	Registry *registry.Registry
	Store    *expectation.Store
}

// Backend answers JSON-RPC methods.
type Backend struct {
	logger   log.Logger
	chain    *chain.State
	cfg      Config
	recorder *metrics.Recorder

	contracts map[common.Address]*Contract
	deployed  []*Contract
}

// NewBackend creates a backend over state. A nil recorder records nothing.
func NewBackend(logger log.Logger, state *chain.State, cfg Config, recorder *metrics.Recorder) *Backend {
	if cfg.EstimateGas == 0 {
		cfg.EstimateGas = DefaultEstimateGas
	}
	if cfg.CallGas == 0 {
		cfg.CallGas = DefaultCallGas
	}
	return &Backend{
		logger:    logger.With("module", "backend"),
		chain:     state,
		cfg:       cfg,
		recorder:  recorder,
		contracts: make(map[common.Address]*Contract),
	}
}

// Chain returns the chain state.
func (b *Backend) Chain() *chain.State {
	return b.chain
}

// Deploy places a contract with the functions of reg at a fresh address. The
// address is keccak256(signatures ++ deploy counter)[12:], so the same
// sequence of deployments always yields the same addresses.
func (b *Backend) Deploy(reg *registry.Registry) *Contract {
	addr := b.nextAddress(reg)
	c := &Contract{
		Address:  addr,
		Registry: reg,
		Store:    expectation.NewStore(addr),
	}
	b.contracts[addr] = c
	b.deployed = append(b.deployed, c)

	b.logger.Debug("deployed contract", "address", addr.Hex(), "functions", len(reg.Descriptors()))
	return c
}

func (b *Backend) nextAddress(reg *registry.Registry) common.Address {
	var preimage []byte
	for _, d := range reg.Descriptors() {
		preimage = append(preimage, d.Signature...)
	}
	preimage = binary.BigEndian.AppendUint64(preimage, uint64(len(b.deployed)))
	return common.BytesToAddress(crypto.Keccak256(preimage)[12:])
}

// Contract returns the contract deployed at addr.
func (b *Backend) Contract(addr common.Address) (*Contract, bool) {
	c, ok := b.contracts[addr]
	return c, ok
}

// Contracts returns the deployed contracts in deploy order.
func (b *Backend) Contracts() []*Contract {
	out := make([]*Contract, len(b.deployed))
	copy(out, b.deployed)
	return out
}
