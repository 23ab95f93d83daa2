// Package contracts embeds contract interfaces used across tests.
package contracts

import (
	"bytes"
	_ "embed"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var (
	// ERC20JSON is the interface of a standard ERC-20 token with a payable deposit.
	//
	//go:embed erc20.json
	ERC20JSON []byte

	// VaultJSON exercises tuples, fixed arrays, overloads, fallback and receive.
	//
	//go:embed vault.json
	VaultJSON []byte
)

// MustABI parses an embedded interface.
func MustABI(data []byte) abi.ABI {
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	return parsed
}
