package backend

import (
	"github.com/ethereum/go-ethereum/common"

	rpctypes "github.com/cosmos/evmmock/rpc/types"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// GetTransactionReceipt returns the receipt of a mined transaction. Asking for
// a hash the node never produced is an error of the calling test.
func (b *Backend) GetTransactionReceipt(hash common.Hash) (map[string]any, error) {
	receipt, ok := b.chain.Receipt(hash)
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrUnknownReceipt, "there is no transaction with hash %s", hash.Hex())
	}
	return rpctypes.RPCMarshalReceipt(receipt), nil
}

// GetTransactionByHash returns a mined transaction, nil when it is unknown.
func (b *Backend) GetTransactionByHash(hash common.Hash) (map[string]any, error) {
	tx, ok := b.chain.Transaction(hash)
	if !ok {
		return nil, nil
	}
	receipt, ok := b.chain.Receipt(hash)
	if !ok {
		return nil, nil
	}
	return rpctypes.RPCMarshalTransaction(tx, receipt.BlockHash, receipt.BlockNumber, uint64(receipt.TxIndex)), nil
}
