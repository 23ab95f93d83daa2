package evm

import (
	"errors"

	"github.com/cosmos/evmmock/encoding"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// DecodeTransaction parses the signed legacy envelope and rejects contract creation.
func DecodeTransaction(raw []byte) (*encoding.LegacyTx, error) {
	tx, err := encoding.DecodeLegacyTx(raw)
	if err != nil {
		if errors.Is(err, encoding.ErrTypedTransaction) {
			return nil, errorsmod.Wrap(types.ErrInvalidTransaction, err.Error())
		}
		return nil, errorsmod.Wrapf(types.ErrInvalidTransaction, "can't decode raw transaction 0x%x: %s", raw, err.Error())
	}

	if tx.IsCreate() {
		return nil, types.ErrDeployNotSupported
	}
	if _, err := tx.ToAddress(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidTransaction, err.Error())
	}

	return tx, nil
}
