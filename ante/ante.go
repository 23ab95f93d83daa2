package ante

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	evmante "github.com/cosmos/evmmock/ante/evm"
	"github.com/cosmos/evmmock/types"
)

// VerifyRawTransaction runs the verification steps over a raw legacy transaction
// and returns the populated record. Every error is fatal to the calling test.
func VerifyRawTransaction(raw []byte, chainID uint64) (*types.TxRecord, error) {
	tx, err := evmante.DecodeTransaction(raw)
	if err != nil {
		return nil, err
	}

	recoveryID, err := evmante.CheckChainID(tx, chainID)
	if err != nil {
		return nil, err
	}

	from, err := evmante.SignatureVerification(tx, chainID, recoveryID)
	if err != nil {
		return nil, err
	}

	// DecodeTransaction already checked the recipient length
	to, _ := tx.ToAddress()

	return &types.TxRecord{
		Hash:                 crypto.Keccak256Hash(raw),
		Type:                 types.LegacyTxType,
		From:                 from,
		To:                   to,
		Nonce:                tx.Nonce,
		Gas:                  tx.Gas,
		GasPrice:             tx.GasPrice,
		Value:                tx.Value,
		Data:                 tx.Data,
		ChainID:              chainID,
		MaxFeePerGas:         new(big.Int),
		MaxPriorityFeePerGas: new(big.Int),
		V:                    tx.V,
		R:                    tx.R,
		S:                    tx.S,
		Raw:                  raw,
	}, nil
}
