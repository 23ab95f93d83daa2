package backend

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	errorsmod "cosmossdk.io/errors"
)

// ChainID returns the chain id of the node.
func (b *Backend) ChainID() *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).SetUint64(b.chain.ChainID()))
}

// GasPrice returns the current gas price.
func (b *Backend) GasPrice() *hexutil.Big {
	return (*hexutil.Big)(b.chain.GasPriceBig())
}

// GetTransactionCount returns the nonce of address. Every account has nonce
// zero at genesis; other historic blocks are not supported.
func (b *Backend) GetTransactionCount(address common.Address, blockNrOrHash *rpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	if blockNrOrHash != nil {
		if blockNum, ok := blockNrOrHash.Number(); ok {
			if blockNum == rpc.EarliestBlockNumber || blockNum == 0 {
				return 0, nil
			}
		}
		if hash, ok := blockNrOrHash.Hash(); ok {
			if genesis, _ := b.chain.BlockByNumber(0); genesis != nil && genesis.Hash == hash {
				return 0, nil
			}
		}
		if err := b.checkLatest(blockNrOrHash); err != nil {
			return 0, errorsmod.Wrap(err, "transaction count is only known for the latest block")
		}
	}
	return hexutil.Uint64(b.chain.Nonce(address)), nil
}
