package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/cosmos/evmmock/chain"
	mocktypes "github.com/cosmos/evmmock/types"
)

// RPCMarshalHeader converts the given header to the RPC output.
func RPCMarshalHeader(head *ethtypes.Header) map[string]any {
	return map[string]any{
		"number":           (*hexutil.Big)(head.Number),
		"hash":             head.Hash(),
		"parentHash":       head.ParentHash,
		"nonce":            head.Nonce,
		"mixHash":          head.MixDigest,
		"sha3Uncles":       head.UncleHash,
		"logsBloom":        head.Bloom,
		"stateRoot":        head.Root,
		"miner":            head.Coinbase,
		"difficulty":       (*hexutil.Big)(head.Difficulty),
		"extraData":        hexutil.Bytes(head.Extra),
		"gasLimit":         hexutil.Uint64(head.GasLimit),
		"gasUsed":          hexutil.Uint64(head.GasUsed),
		"timestamp":        hexutil.Uint64(head.Time),
		"transactionsRoot": head.TxHash,
		"receiptsRoot":     head.ReceiptHash,
	}
}

// RPCMarshalBlock converts a block to the RPC output. With fullTx the
// transactions are looked up through txs, otherwise only hashes are returned.
func RPCMarshalBlock(block *chain.Block, fullTx bool, txs func(common.Hash) (*mocktypes.TxRecord, bool)) map[string]any {
	fields := RPCMarshalHeader(block.Header)
	fields["size"] = hexutil.Uint64(block.Header.Size())
	fields["uncles"] = []common.Hash{}

	if !fullTx {
		hashes := make([]common.Hash, len(block.Transactions))
		copy(hashes, block.Transactions)
		fields["transactions"] = hashes
		return fields
	}

	full := make([]map[string]any, 0, len(block.Transactions))
	for i, hash := range block.Transactions {
		tx, ok := txs(hash)
		if !ok {
			continue
		}
		full = append(full, RPCMarshalTransaction(tx, block.Hash, block.Number(), uint64(i)))
	}
	fields["transactions"] = full
	return fields
}

// RPCMarshalTransaction returns a mined legacy transaction as it is
// returned by eth_getTransactionByHash.
func RPCMarshalTransaction(tx *mocktypes.TxRecord, blockHash common.Hash, blockNumber, index uint64) map[string]any {
	to := tx.To
	fields := map[string]any{
		"type":             hexutil.Uint64(tx.Type),
		"hash":             tx.Hash,
		"blockHash":        blockHash,
		"blockNumber":      hexutil.Uint64(blockNumber),
		"transactionIndex": hexutil.Uint64(index),
		"from":             tx.From,
		"to":               &to,
		"nonce":            hexutil.Uint64(tx.Nonce),
		"gas":              hexutil.Uint64(tx.Gas),
		"gasPrice":         (*hexutil.Big)(tx.GasPrice),
		"value":            (*hexutil.Big)(tx.Value),
		"input":            hexutil.Bytes(tx.Data),
		"chainId":          hexutil.Uint64(tx.ChainID),
		"v":                (*hexutil.Big)(tx.V),
		"r":                (*hexutil.Big)(tx.R),
		"s":                (*hexutil.Big)(tx.S),
	}
	return fields
}

// RPCMarshalReceipt converts a receipt to the RPC output.
func RPCMarshalReceipt(receipt *chain.Receipt) map[string]any {
	to := receipt.To
	logs := receipt.Logs
	if logs == nil {
		logs = []*ethtypes.Log{}
	}
	return map[string]any{
		"blockHash":         receipt.BlockHash,
		"blockNumber":       hexutil.Uint64(receipt.BlockNumber),
		"transactionHash":   receipt.TxHash,
		"transactionIndex":  hexutil.Uint64(receipt.TxIndex),
		"from":              receipt.From,
		"to":                &to,
		"gasUsed":           hexutil.Uint64(receipt.GasUsed),
		"cumulativeGasUsed": hexutil.Uint64(receipt.CumulativeGasUsed),
		"contractAddress":   nil,
		"logs":              logs,
		"logsBloom":         receipt.Bloom,
		"type":              hexutil.Uint(receipt.Type),
		"effectiveGasPrice": (*hexutil.Big)(receipt.EffectiveGasPrice),
		"status":            hexutil.Uint(receipt.Status),
	}
}
