package encoding

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	big27 = big.NewInt(27)
	big28 = big.NewInt(28)
	big35 = big.NewInt(35)
)

var (
	// ErrPreEIP155 is returned for signatures with v in {27, 28}.
	ErrPreEIP155 = errors.New("transactions must use eip-155 signatures")
	// ErrVOutOfRange is returned for any other v below 35.
	ErrVOutOfRange = errors.New("v out of range")
)

// SplitV extracts the chain id and the recovery id from an EIP-155 v value.
func SplitV(v *big.Int) (chainID *big.Int, recoveryID byte, err error) {
	if v == nil {
		return nil, 0, ErrVOutOfRange
	}
	if v.Cmp(big27) == 0 || v.Cmp(big28) == 0 {
		return nil, 0, ErrPreEIP155
	}
	if v.Cmp(big35) < 0 {
		return nil, 0, ErrVOutOfRange
	}

	// v = chainID*2 + 35 + recoveryID
	rest := new(big.Int).Sub(v, big35)
	chainID = new(big.Int).Rsh(rest, 1)
	recoveryID = byte(rest.Bit(0))
	return chainID, recoveryID, nil
}

// EncodeV is the inverse of SplitV.
func EncodeV(chainID *big.Int, recoveryID byte) *big.Int {
	v := new(big.Int).Lsh(chainID, 1)
	v.Add(v, big35)
	return v.Add(v, big.NewInt(int64(recoveryID)))
}

// RecoverSender recovers the address that produced the signature (r, s, recoveryID) over hash.
func RecoverSender(hash common.Hash, r, s *big.Int, recoveryID byte) (common.Address, error) {
	if r == nil || s == nil {
		return common.Address{}, errors.New("missing signature values")
	}
	if !crypto.ValidateSignatureValues(recoveryID, r, s, true) {
		return common.Address{}, errors.New("invalid signature values")
	}

	sig := make([]byte, crypto.SignatureLength)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:64])
	sig[crypto.RecoveryIDOffset] = recoveryID

	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
