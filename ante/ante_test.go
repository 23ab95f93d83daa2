package ante_test

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/evmmock/ante"
	evmante "github.com/cosmos/evmmock/ante/evm"
	"github.com/cosmos/evmmock/crypto/ethsecp256k1"
	"github.com/cosmos/evmmock/types"
)

var recipient = common.HexToAddress("0x1111111111111111111111111111111111111111")

func signRaw(t *testing.T, key *ecdsa.PrivateKey, signer ethtypes.Signer, to *common.Address) []byte {
	t.Helper()
	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    3,
		GasPrice: big.NewInt(2),
		Gas:      50_000,
		To:       to,
		Value:    big.NewInt(1),
		Data:     []byte{0x01, 0x02, 0x03, 0x04},
	})
	signed, err := ethtypes.SignTx(tx, signer, key)
	require.NoError(t, err)
	raw, err := signed.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func TestVerifyRawTransaction(t *testing.T) {
	key := ethsecp256k1.KeyFor("alice")
	raw := signRaw(t, key, ethtypes.NewEIP155Signer(big.NewInt(1234)), &recipient)

	record, err := ante.VerifyRawTransaction(raw, 1234)
	require.NoError(t, err)
	require.Equal(t, ethsecp256k1.AddressFor("alice"), record.From)
	require.Equal(t, recipient, record.To)
	require.Equal(t, crypto.Keccak256Hash(raw), record.Hash)
	require.Equal(t, uint8(types.LegacyTxType), record.Type)
	require.Equal(t, uint64(3), record.Nonce)
	require.Equal(t, uint64(50_000), record.Gas)
	require.Equal(t, int64(2), record.GasPrice.Int64())
	require.Equal(t, int64(1), record.Value.Int64())
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, record.Data)
	require.Zero(t, record.MaxFeePerGas.Sign())
	require.Zero(t, record.MaxPriorityFeePerGas.Sign())
}

func TestVerifyRawTransactionRoundTrip(t *testing.T) {
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		for _, chainID := range []uint64{1, 5, 1234, 1 << 40} {
			key := ethsecp256k1.KeyFor(name)
			raw := signRaw(t, key, ethtypes.NewEIP155Signer(new(big.Int).SetUint64(chainID)), &recipient)

			record, err := ante.VerifyRawTransaction(raw, chainID)
			require.NoError(t, err)
			require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), record.From, "%s on chain %d", name, chainID)
		}
	}
}

func TestVerifyRawTransactionFailures(t *testing.T) {
	key := ethsecp256k1.KeyFor("alice")

	// a pre-eip-155 signature: v is 27 or 28
	homestead := signRaw(t, key, ethtypes.HomesteadSigner{}, &recipient)

	// v = 30 is neither eip-155 nor pre-eip-155
	var tx []any
	require.NoError(t, rlp.DecodeBytes(homestead, &tx))
	tx[6] = uint(30)
	badV, err := rlp.EncodeToBytes(tx)
	require.NoError(t, err)

	dynamic := ethtypes.NewTx(&ethtypes.DynamicFeeTx{ChainID: big.NewInt(1234), To: &recipient, Gas: 21000})
	signedDynamic, err := ethtypes.SignTx(dynamic, ethtypes.LatestSignerForChainID(big.NewInt(1234)), key)
	require.NoError(t, err)
	typed, err := signedDynamic.MarshalBinary()
	require.NoError(t, err)

	testCases := []struct {
		name string
		raw  []byte
		err  error
		msg  string
	}{
		{"garbage", []byte{0xc1, 0x01}, types.ErrInvalidTransaction, "invalid transaction data"},
		{"typed transaction", typed, types.ErrInvalidTransaction, "typed transactions are not supported"},
		{"contract creation", signRaw(t, key, ethtypes.NewEIP155Signer(big.NewInt(1234)), nil), types.ErrDeployNotSupported, "use Deploy instead"},
		{"homestead signature", homestead, types.ErrInvalidSignature, "transactions must use eip-155 signatures"},
		{"v out of range", badV, types.ErrInvalidSignature, "v out of range"},
		{"other chain", signRaw(t, key, ethtypes.NewEIP155Signer(big.NewInt(1)), &recipient), types.ErrChainIDMismatch, "chain id mismatch"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ante.VerifyRawTransaction(tc.raw, 1234)
			require.ErrorIs(t, err, tc.err)
			require.ErrorContains(t, err, tc.msg)
		})
	}
}

type nonces map[common.Address]uint64

func (n nonces) Nonce(addr common.Address) uint64 { return n[addr] }

func TestCheckNonce(t *testing.T) {
	alice := ethsecp256k1.AddressFor("alice")
	state := nonces{alice: 2}

	require.NoError(t, evmante.CheckNonce(state, alice, 2))
	require.ErrorIs(t, evmante.CheckNonce(state, alice, 1), types.ErrNonceMismatch)
	require.ErrorContains(t, evmante.CheckNonce(state, alice, 3), "got 3, expected 2")
	require.NoError(t, evmante.CheckNonce(state, ethsecp256k1.AddressFor("bob"), 0))
}
