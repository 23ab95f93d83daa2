package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Receipt statuses.
const (
	ReceiptStatusFailed     = ethtypes.ReceiptStatusFailed
	ReceiptStatusSuccessful = ethtypes.ReceiptStatusSuccessful
)

// Receipt is the result of a mined transaction.
type Receipt struct {
	TxHash            common.Hash
	TxIndex           uint
	Type              uint8
	BlockHash         common.Hash
	BlockNumber       uint64
	From              common.Address
	To                common.Address
	GasUsed           uint64
	CumulativeGasUsed uint64
	EffectiveGasPrice *big.Int
	Status            uint64
	Logs              []*ethtypes.Log
	Bloom             ethtypes.Bloom
}

// LogSpec is a log to attach to a mined transaction.
type LogSpec struct {
	Topics []common.Hash
	Data   []byte
}

// Execution is what the expectation machinery decided about a transaction.
type Execution struct {
	Reverted bool
	// GasUsed is reported in the receipt and the block header.
	GasUsed uint64
	Logs    []LogSpec
	// Confirmations is the number of empty blocks mined after the transaction block.
	Confirmations uint64
}
