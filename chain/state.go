// Package chain keeps the virtual ledger of the mock node: blocks, nonces,
// transactions and receipts. It is not safe for concurrent use; the node
// serializes access.
package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/gammazero/deque"
	"github.com/holiman/uint256"

	"github.com/cosmos/evmmock/types"

	"cosmossdk.io/log"
)

// Params configures a new chain.
type Params struct {
	ChainID     uint64
	GasPrice    *uint256.Int
	GenesisTime uint64
	// BlockTime is the number of virtual seconds between consecutive blocks.
	BlockTime     uint64
	BlockGasLimit uint64
}

// State is the chain of the mock node. Block n is stamped GenesisTime + n*BlockTime.
type State struct {
	logger log.Logger
	params Params

	gasPrice *uint256.Int
	blocks   deque.Deque[*Block]
	byHash   map[common.Hash]*Block
	nonces   map[common.Address]uint64
	txs      map[common.Hash]*types.TxRecord
	receipts map[common.Hash]*Receipt
}

// New creates a chain holding only the genesis block.
func New(logger log.Logger, params Params) *State {
	gasPrice := params.GasPrice
	if gasPrice == nil {
		gasPrice = uint256.NewInt(1)
	}

	s := &State{
		logger:   logger.With("module", "chain"),
		params:   params,
		gasPrice: gasPrice.Clone(),
		byHash:   make(map[common.Hash]*Block),
		nonces:   make(map[common.Address]uint64),
		txs:      make(map[common.Hash]*types.TxRecord),
		receipts: make(map[common.Hash]*Receipt),
	}
	s.push(newBlock(nil, 0, params.GenesisTime, params.BlockGasLimit, 0, nil, ethtypes.Bloom{}))
	return s
}

func (s *State) ChainID() uint64 { return s.params.ChainID }

// BlockNumber is the number of the latest block, the genesis block being 0.
func (s *State) BlockNumber() uint64 {
	return uint64(s.blocks.Len() - 1)
}

// Latest returns the latest block.
func (s *State) Latest() *Block {
	return s.blocks.Back()
}

// BlockByNumber returns block n.
func (s *State) BlockByNumber(n uint64) (*Block, bool) {
	if n > s.BlockNumber() {
		return nil, false
	}
	return s.blocks.At(int(n)), true
}

// BlockByHash returns the block with the given hash.
func (s *State) BlockByHash(hash common.Hash) (*Block, bool) {
	b, ok := s.byHash[hash]
	return b, ok
}

// GasPrice returns a copy of the current gas price.
func (s *State) GasPrice() *uint256.Int {
	return s.gasPrice.Clone()
}

// SetGasPrice changes the gas price reported by eth_gasPrice.
func (s *State) SetGasPrice(price *uint256.Int) {
	s.gasPrice = price.Clone()
}

// Nonce returns the next nonce of addr.
func (s *State) Nonce(addr common.Address) uint64 {
	return s.nonces[addr]
}

// Transaction returns a mined transaction.
func (s *State) Transaction(hash common.Hash) (*types.TxRecord, bool) {
	tx, ok := s.txs[hash]
	return tx, ok
}

// Receipt returns the receipt of a mined transaction.
func (s *State) Receipt(hash common.Hash) (*Receipt, bool) {
	r, ok := s.receipts[hash]
	return r, ok
}

// Mine appends a block holding tx, bumps the sender nonce, stores the receipt
// and then appends exec.Confirmations empty blocks.
func (s *State) Mine(tx *types.TxRecord, exec Execution) *Receipt {
	number := s.BlockNumber() + 1

	receipt := &Receipt{
		TxHash:            tx.Hash,
		Type:              tx.Type,
		BlockNumber:       number,
		From:              tx.From,
		To:                tx.To,
		GasUsed:           exec.GasUsed,
		CumulativeGasUsed: exec.GasUsed,
		EffectiveGasPrice: tx.GasPrice,
		Status:            ReceiptStatusSuccessful,
	}
	if exec.Reverted {
		receipt.Status = ReceiptStatusFailed
	}

	for i, spec := range exec.Logs {
		topics := make([]common.Hash, len(spec.Topics))
		copy(topics, spec.Topics)
		receipt.Logs = append(receipt.Logs, &ethtypes.Log{
			Address:     tx.To,
			Topics:      topics,
			Data:        spec.Data,
			BlockNumber: number,
			TxHash:      tx.Hash,
			TxIndex:     0,
			Index:       uint(i),
		})
	}
	receipt.Bloom = logsBloom(receipt.Logs)

	block := newBlock(s.Latest(), number, s.timestamp(number), s.params.BlockGasLimit, exec.GasUsed, []common.Hash{tx.Hash}, receipt.Bloom)
	receipt.BlockHash = block.Hash
	for _, l := range receipt.Logs {
		l.BlockHash = block.Hash
	}

	s.push(block)
	s.nonces[tx.From] = tx.Nonce + 1
	s.txs[tx.Hash] = tx
	s.receipts[tx.Hash] = receipt

	s.logger.Debug(
		"mined transaction",
		"block", number, "hash", block.Hash.Hex(), "tx", tx.Hash.Hex(), "status", receipt.Status,
	)

	s.Advance(exec.Confirmations)
	return receipt
}

// Advance appends n empty blocks.
func (s *State) Advance(n uint64) {
	for i := uint64(0); i < n; i++ {
		number := s.BlockNumber() + 1
		s.push(newBlock(s.Latest(), number, s.timestamp(number), s.params.BlockGasLimit, 0, nil, ethtypes.Bloom{}))
	}
	if n > 0 {
		s.logger.Debug("mined empty blocks", "count", n, "latest", s.BlockNumber())
	}
}

func (s *State) timestamp(number uint64) uint64 {
	return s.params.GenesisTime + number*s.params.BlockTime
}

func logsBloom(logs []*ethtypes.Log) ethtypes.Bloom {
	var bloom ethtypes.Bloom
	for _, l := range logs {
		bloom.Add(l.Address.Bytes())
		for _, topic := range l.Topics {
			bloom.Add(topic.Bytes())
		}
	}
	return bloom
}

func (s *State) push(b *Block) {
	s.blocks.PushBack(b)
	s.byHash[b.Hash] = b
}

// GasPriceBig is GasPrice as a big integer.
func (s *State) GasPriceBig() *big.Int {
	return s.gasPrice.ToBig()
}
