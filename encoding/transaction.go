package encoding

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// legacyTxFields is the item count of a signed legacy transaction: nonce, gas price, gas, to, value, data, v, r, s.
const legacyTxFields = 9

var (
	// ErrEmptyTransaction is returned for zero-length input.
	ErrEmptyTransaction = errors.New("empty transaction")
	// ErrTypedTransaction is returned for EIP-2718 envelopes.
	ErrTypedTransaction = errors.New("typed transactions are not supported, only legacy eip-155 transactions are accepted")
)

// LegacyTx holds the RLP items of a signed legacy transaction.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       []byte
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

// DecodeLegacyTx parses raw bytes as an RLP list of exactly nine items.
func DecodeLegacyTx(raw []byte) (*LegacyTx, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyTransaction
	}
	// a list prefix starts at 0xc0, anything below is a type byte or a string
	if raw[0] < 0xc0 {
		if raw[0] <= 0x7f {
			return nil, fmt.Errorf("%w: got type 0x%02x", ErrTypedTransaction, raw[0])
		}
		return nil, errors.New("expected an rlp list")
	}

	kind, content, rest, err := rlp.Split(raw)
	if err != nil {
		return nil, err
	}
	if kind != rlp.List {
		return nil, errors.New("expected an rlp list")
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after transaction", len(rest))
	}

	n, err := rlp.CountValues(content)
	if err != nil {
		return nil, err
	}
	if n != legacyTxFields {
		return nil, fmt.Errorf("expected %d rlp items, got %d", legacyTxFields, n)
	}

	tx := new(LegacyTx)
	if err := rlp.DecodeBytes(raw, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// IsCreate reports whether the transaction deploys a contract.
func (tx *LegacyTx) IsCreate() bool {
	return len(tx.To) == 0
}

// ToAddress returns the recipient, or an error if the item isn't 20 bytes long.
func (tx *LegacyTx) ToAddress() (common.Address, error) {
	if len(tx.To) != common.AddressLength {
		return common.Address{}, fmt.Errorf("recipient must be %d bytes, got %d", common.AddressLength, len(tx.To))
	}
	return common.BytesToAddress(tx.To), nil
}

// SigningHash returns the EIP-155 signing hash: keccak(rlp([nonce, gasPrice, gas, to, value, data, chainID, 0, 0])).
func (tx *LegacyTx) SigningHash(chainID *big.Int) common.Hash {
	return RLPHash([]any{
		tx.Nonce,
		tx.GasPrice,
		tx.Gas,
		tx.To,
		tx.Value,
		tx.Data,
		chainID,
		uint(0),
		uint(0),
	})
}

// RLPHash encodes x and hashes the result with keccak256.
func RLPHash(x any) common.Hash {
	enc, err := rlp.EncodeToBytes(x)
	if err != nil {
		// every value hashed here is built from decoded rlp items
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// Keccak256 hashes the concatenation of the given byte slices.
func Keccak256(data ...[]byte) common.Hash {
	return crypto.Keccak256Hash(data...)
}
