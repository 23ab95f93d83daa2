// Package ethsecp256k1 provides deterministic secp256k1 accounts and legacy
// EIP-155 signing helpers for tests driving the mock node.
package ethsecp256k1

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyFor derives a private key from keccak256(name). The same name always yields the same account.
func KeyFor(name string) *ecdsa.PrivateKey {
	key, err := crypto.ToECDSA(crypto.Keccak256([]byte(name)))
	if err != nil {
		panic(err)
	}
	return key
}

// AddressFor returns the address of KeyFor(name).
func AddressFor(name string) common.Address {
	return crypto.PubkeyToAddress(KeyFor(name).PublicKey)
}

// LegacyTx describes an unsigned legacy transaction.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
}

// SignLegacy signs tx with an EIP-155 signature for chainID and returns the raw RLP bytes.
func SignLegacy(key *ecdsa.PrivateKey, chainID uint64, tx LegacyTx) ([]byte, error) {
	to := tx.To
	gasPrice, value := tx.GasPrice, tx.Value
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	if value == nil {
		value = new(big.Int)
	}

	signed, err := ethtypes.SignNewTx(key, ethtypes.NewEIP155Signer(new(big.Int).SetUint64(chainID)), &ethtypes.LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: gasPrice,
		Gas:      tx.Gas,
		To:       &to,
		Value:    value,
		Data:     tx.Data,
	})
	if err != nil {
		return nil, err
	}
	return signed.MarshalBinary()
}
