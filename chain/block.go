package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Block is a mined block. The mock never executes code, so headers carry
// empty state and receipt roots.
type Block struct {
	Header *ethtypes.Header
	Hash   common.Hash
	// Transactions lists the hashes of the block transactions, at most one.
	Transactions []common.Hash
}

func (b *Block) Number() uint64 {
	return b.Header.Number.Uint64()
}

func newBlock(parent *Block, number, timestamp, gasLimit, gasUsed uint64, txs []common.Hash, bloom ethtypes.Bloom) *Block {
	header := &ethtypes.Header{
		UncleHash:   ethtypes.EmptyUncleHash,
		Root:        ethtypes.EmptyRootHash,
		TxHash:      ethtypes.EmptyTxsHash,
		ReceiptHash: ethtypes.EmptyReceiptsHash,
		Bloom:       bloom,
		Difficulty:  new(big.Int),
		Number:      new(big.Int).SetUint64(number),
		GasLimit:    gasLimit,
		GasUsed:     gasUsed,
		Time:        timestamp,
		Extra:       []byte{},
	}
	if parent != nil {
		header.ParentHash = parent.Hash
	}
	if len(txs) > 0 {
		// not a trie root, only needs to differ between blocks with different transactions
		hashes := make([][]byte, len(txs))
		for i, h := range txs {
			hashes[i] = h.Bytes()
		}
		header.TxHash = crypto.Keccak256Hash(hashes...)
	}

	return &Block{Header: header, Hash: header.Hash(), Transactions: txs}
}
