package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/encoding"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// SignatureVerification recovers the sender from the EIP-155 signing hash of the transaction.
func SignatureVerification(tx *encoding.LegacyTx, chainID uint64, recoveryID byte) (common.Address, error) {
	hash := tx.SigningHash(new(big.Int).SetUint64(chainID))

	from, err := encoding.RecoverSender(hash, tx.R, tx.S, recoveryID)
	if err != nil {
		return common.Address{}, errorsmod.Wrapf(types.ErrInvalidSignature, "verification failed: %s", err.Error())
	}

	return from, nil
}
