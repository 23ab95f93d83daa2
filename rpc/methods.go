package rpc

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	rpctypes "github.com/cosmos/evmmock/rpc/types"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// ClientVersion is answered by web3_clientVersion.
const ClientVersion = "evmmock/v1.0.0"

// handleMethod dispatches one method. The method set is closed; anything else
// is an error of the calling test.
func (s *Server) handleMethod(method string, params json.RawMessage) (any, error) {
	b := s.backend

	switch method {
	case "web3_clientVersion":
		return ClientVersion, parseParams(method, params, 0)

	case "web3_sha3":
		var data hexutil.Bytes
		if err := parseParams(method, params, 1, &data); err != nil {
			return nil, err
		}
		return crypto.Keccak256Hash(data), nil

	case "net_version":
		return strconv.FormatUint(b.Chain().ChainID(), 10), parseParams(method, params, 0)

	case "net_listening":
		return true, parseParams(method, params, 0)

	case "net_peerCount":
		return hexutil.Uint(0), parseParams(method, params, 0)

	case "eth_chainId":
		return b.ChainID(), parseParams(method, params, 0)

	case "eth_blockNumber":
		return b.BlockNumber(), parseParams(method, params, 0)

	case "eth_gasPrice":
		return b.GasPrice(), parseParams(method, params, 0)

	case "eth_maxPriorityFeePerGas":
		return (*hexutil.Big)(new(big.Int)), parseParams(method, params, 0)

	case "eth_accounts":
		return []common.Address{}, parseParams(method, params, 0)

	case "eth_syncing":
		return false, parseParams(method, params, 0)

	case "eth_getTransactionCount":
		var (
			address common.Address
			block   *rpc.BlockNumberOrHash
		)
		if err := parseParams(method, params, 1, &address, &block); err != nil {
			return nil, err
		}
		return b.GetTransactionCount(address, block)

	case "eth_call":
		var (
			args  rpctypes.CallArgs
			block *rpc.BlockNumberOrHash
		)
		if err := parseParams(method, params, 1, &args, &block); err != nil {
			return nil, err
		}
		return b.Call(args, block)

	case "eth_estimateGas":
		var (
			args  rpctypes.CallArgs
			block *rpc.BlockNumberOrHash
		)
		if err := parseParams(method, params, 1, &args, &block); err != nil {
			return nil, err
		}
		return b.EstimateGas(args, block)

	case "eth_sendRawTransaction":
		var data hexutil.Bytes
		if err := parseParams(method, params, 1, &data); err != nil {
			return nil, err
		}
		return b.SendRawTransaction(data)

	case "eth_sendTransaction":
		return nil, errorsmod.Wrap(types.ErrSigningNotSupported, "use offline signing with a private key")

	case "eth_getTransactionReceipt":
		var hash common.Hash
		if err := parseParams(method, params, 1, &hash); err != nil {
			return nil, err
		}
		return b.GetTransactionReceipt(hash)

	case "eth_getTransactionByHash":
		var hash common.Hash
		if err := parseParams(method, params, 1, &hash); err != nil {
			return nil, err
		}
		return b.GetTransactionByHash(hash)

	case "eth_getBlockByNumber":
		var (
			number rpc.BlockNumber
			fullTx bool
		)
		if err := parseParams(method, params, 1, &number, &fullTx); err != nil {
			return nil, err
		}
		return b.GetBlockByNumber(number, fullTx)

	case "eth_getBlockByHash":
		var (
			hash   common.Hash
			fullTx bool
		)
		if err := parseParams(method, params, 1, &hash, &fullTx); err != nil {
			return nil, err
		}
		return b.GetBlockByHash(hash, fullTx)

	default:
		return nil, errorsmod.Wrapf(types.ErrUnknownMethod, "mock node does not support rpc method %q", method)
	}
}

// parseParams decodes positional parameters into out. The first required
// parameters must be present; the rest are optional.
func parseParams(method string, params json.RawMessage, required int, out ...any) error {
	var list []json.RawMessage
	if len(params) > 0 && string(params) != "null" {
		if err := json.Unmarshal(params, &list); err != nil {
			return errorsmod.Wrapf(types.ErrInvalidParams, "%s expects an array of parameters: %s", method, err.Error())
		}
	}

	if len(list) < required || len(list) > len(out) {
		if required == len(out) {
			return errorsmod.Wrapf(types.ErrInvalidParams, "%s expects %d parameters, got %d", method, required, len(list))
		}
		return errorsmod.Wrapf(
			types.ErrInvalidParams, "%s expects %d to %d parameters, got %d", method, required, len(out), len(list),
		)
	}

	for i, item := range list {
		if err := json.Unmarshal(item, out[i]); err != nil {
			return errorsmod.Wrapf(types.ErrInvalidParams, "invalid parameter %d of %s: %s", i, method, err.Error())
		}
	}
	return nil
}
