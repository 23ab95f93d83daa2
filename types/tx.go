package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// LegacyTxType is the only transaction type the node accepts.
const LegacyTxType = 0

// TxRecord is a verified transaction: every field of the signed envelope plus the recovered sender.
type TxRecord struct {
	Hash     common.Hash
	Type     uint8
	From     common.Address
	To       common.Address
	Nonce    uint64
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
	Data     []byte
	ChainID  uint64
	// MaxFeePerGas and MaxPriorityFeePerGas are always zero for legacy transactions.
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	V, R, S              *big.Int
	// Raw holds the bytes submitted through eth_sendRawTransaction.
	Raw []byte
}
