package backend

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	rpctypes "github.com/cosmos/evmmock/rpc/types"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// BlockNumber returns the number of the latest block.
func (b *Backend) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(b.chain.BlockNumber())
}

// GetBlockByNumber returns the block with the given number, nil when it does
// not exist.
func (b *Backend) GetBlockByNumber(blockNum rpc.BlockNumber, fullTx bool) (map[string]any, error) {
	var number uint64
	switch blockNum {
	case rpc.LatestBlockNumber, rpc.PendingBlockNumber, rpc.SafeBlockNumber, rpc.FinalizedBlockNumber:
		number = b.chain.BlockNumber()
	case rpc.EarliestBlockNumber:
		number = 0
	default:
		if blockNum < 0 {
			return nil, errorsmod.Wrapf(types.ErrInvalidParams, "invalid block number %d", blockNum)
		}
		number = uint64(blockNum.Int64())
	}

	block, ok := b.chain.BlockByNumber(number)
	if !ok {
		return nil, nil
	}
	return rpctypes.RPCMarshalBlock(block, fullTx, b.chain.Transaction), nil
}

// GetBlockByHash returns the block with the given hash, nil when it does not exist.
func (b *Backend) GetBlockByHash(hash common.Hash, fullTx bool) (map[string]any, error) {
	block, ok := b.chain.BlockByHash(hash)
	if !ok {
		return nil, nil
	}
	return rpctypes.RPCMarshalBlock(block, fullTx, b.chain.Transaction), nil
}

// checkLatest accepts block references that resolve to the latest block.
// Calls can't run against history because the mock keeps no historical state.
func (b *Backend) checkLatest(blockNrOrHash *rpc.BlockNumberOrHash) error {
	if blockNrOrHash == nil {
		return nil
	}

	if hash, ok := blockNrOrHash.Hash(); ok {
		if hash != b.chain.Latest().Hash {
			return errorsmod.Wrapf(types.ErrUnsupportedBlock, "block %s is not the latest block", hash.Hex())
		}
		return nil
	}

	blockNum, ok := blockNrOrHash.Number()
	if !ok {
		return nil
	}
	switch blockNum {
	case rpc.LatestBlockNumber, rpc.PendingBlockNumber, rpc.SafeBlockNumber, rpc.FinalizedBlockNumber:
		return nil
	case rpc.EarliestBlockNumber:
		if b.chain.BlockNumber() != 0 {
			return errorsmod.Wrap(types.ErrUnsupportedBlock, "earliest block is not the latest block")
		}
		return nil
	}
	if blockNum < 0 || uint64(blockNum.Int64()) != b.chain.BlockNumber() {
		return errorsmod.Wrapf(
			types.ErrUnsupportedBlock, "requested block %d, latest block is %d", blockNum.Int64(), b.chain.BlockNumber(),
		)
	}
	return nil
}
