package evm

import (
	"math/big"

	"github.com/cosmos/evmmock/encoding"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// CheckChainID extracts the chain id folded into v and compares it with the node's one.
// It returns the recovery id of the signature.
func CheckChainID(tx *encoding.LegacyTx, chainID uint64) (byte, error) {
	txChainID, recoveryID, err := encoding.SplitV(tx.V)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidSignature, "%s (v = %s)", err.Error(), tx.V)
	}

	if txChainID.Cmp(new(big.Int).SetUint64(chainID)) != 0 {
		return 0, errorsmod.Wrapf(
			types.ErrChainIDMismatch,
			"transaction signed for chain %s, node runs chain %d", txChainID, chainID,
		)
	}

	return recoveryID, nil
}
