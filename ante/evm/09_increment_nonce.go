package evm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// NonceReader exposes the next expected nonce of an account.
type NonceReader interface {
	Nonce(addr common.Address) uint64
}

// CheckNonce requires the transaction nonce to be exactly the sender's next nonce.
// The nonce itself is bumped when the transaction is mined.
func CheckNonce(nonces NonceReader, from common.Address, txNonce uint64) error {
	accountNonce := nonces.Nonce(from)

	if txNonce != accountNonce {
		return errorsmod.Wrapf(
			types.ErrNonceMismatch,
			"nonce mismatch for %s: got %d, expected %d", from.Hex(), txNonce, accountNonce,
		)
	}

	return nil
}
