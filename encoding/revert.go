package encoding

import (
	"bytes"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]
	revertArgs     = abi.Arguments{{Type: mustType("string")}}
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// PackRevert encodes reason as the standard Error(string) revert payload.
func PackRevert(reason string) []byte {
	data, err := revertArgs.Pack(reason)
	if err != nil {
		panic(err)
	}
	return append(bytes.Clone(revertSelector), data...)
}

// UnpackRevert extracts the reason from an Error(string) revert payload.
func UnpackRevert(data []byte) (string, error) {
	return abi.UnpackRevert(data)
}
