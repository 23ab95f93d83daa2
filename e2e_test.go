package evmmock_test

import (
	"context"
	"math/big"
	"net/http/httptest"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	//nolint:revive // dot imports are fine for Ginkgo
	. "github.com/onsi/ginkgo/v2"
	//nolint:revive // dot imports are fine for Ginkgo
	. "github.com/onsi/gomega"

	"github.com/cosmos/evmmock"
	"github.com/cosmos/evmmock/crypto/ethsecp256k1"
	"github.com/cosmos/evmmock/server"
	serverconfig "github.com/cosmos/evmmock/server/config"
	"github.com/cosmos/evmmock/testutil/contracts"

	"cosmossdk.io/log"
)

var _ = Describe("mock node over HTTP", func() {
	var (
		ctx      context.Context
		reporter *server.Reporter
		m        *evmmock.Mock
		token    *evmmock.Contract
		rpcCl    *gethrpc.Client
		client   *ethclient.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		reporter = server.NewReporter(log.NewNopLogger())
		m = evmmock.New(reporter, chainID)
		token = m.Deploy(contracts.ERC20JSON)

		srv := httptest.NewServer(server.NewRouter(log.NewNopLogger(), m.Handler(), serverconfig.DefaultConfig()))
		DeferCleanup(srv.Close)

		var err error
		rpcCl, err = gethrpc.DialContext(ctx, srv.URL)
		Expect(err).To(BeNil())
		DeferCleanup(rpcCl.Close)
		client = ethclient.NewClient(rpcCl)
	})

	send := func(nonce uint64) common.Hash {
		raw, err := ethsecp256k1.SignLegacy(ethsecp256k1.KeyFor("alice"), chainID, ethsecp256k1.LegacyTx{
			Nonce:    nonce,
			GasPrice: big.NewInt(1),
			Gas:      100_000,
			To:       token.Address(),
			Data:     token.Pack("transfer", bob, big.NewInt(1)),
		})
		Expect(err).To(BeNil())

		var hash common.Hash
		Expect(rpcCl.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw))).To(Succeed())
		return hash
	}

	blockNumber := func() uint64 {
		n, err := client.BlockNumber(ctx)
		Expect(err).To(BeNil())
		return n
	}

	It("answers the chain id", func() {
		var id hexutil.Uint64
		Expect(rpcCl.CallContext(ctx, &id, "eth_chainId")).To(Succeed())
		Expect(uint64(id)).To(Equal(uint64(0x4d2)))
	})

	Context("when a transfer is sent", func() {
		It("mines one block without confirmations", func() {
			token.ExpectTransaction("transfer").Once().Returns(true).Confirmations(0)

			Expect(blockNumber()).To(BeZero())
			send(0)
			Expect(blockNumber()).To(Equal(uint64(1)))
		})

		It("mines the confirmation blocks too", func() {
			token.ExpectTransaction("transfer").Once().Returns(true).Confirmations(5)

			hash := send(0)
			Expect(blockNumber()).To(Equal(uint64(6)))

			receipt, err := client.TransactionReceipt(ctx, hash)
			Expect(err).To(BeNil())
			Expect(receipt.BlockNumber.Uint64()).To(Equal(uint64(1)))
		})

		It("returns a successful receipt", func() {
			token.Expect("transfer").Returns(true)

			hash := send(0)
			receipt, err := client.TransactionReceipt(ctx, hash)
			Expect(err).To(BeNil())
			Expect(receipt.TxHash).To(Equal(hash))
			Expect(receipt.BlockNumber.Uint64()).To(Equal(uint64(1)))
			Expect(receipt.Status).To(Equal(ethtypes.ReceiptStatusSuccessful))
		})
	})

	It("does not mine on calls and gas estimation", func() {
		token.Expect("transfer").Returns(true)

		to := token.Address()
		msg := ethereum.CallMsg{From: alice, To: &to, Data: token.Pack("transfer", bob, big.NewInt(1))}
		_, err := client.CallContract(ctx, msg, nil)
		Expect(err).To(BeNil())
		_, err = client.EstimateGas(ctx, msg)
		Expect(err).To(BeNil())

		Expect(blockNumber()).To(BeZero())
	})

	It("aborts on receipts of unknown transactions", func() {
		_, err := client.TransactionReceipt(ctx, common.Hash{})
		Expect(err).To(MatchError(ContainSubstring("there is no transaction with hash")))

		_, aborts := reporter.Counts()
		Expect(aborts).To(Equal(1))
	})

	It("serves a batch in sequence order", func() {
		seq := evmmock.NewSequence()
		token.ExpectCall("name").InSequence(seq).Once().Returns("Token")
		token.ExpectCall("symbol").InSequence(seq).Once().Returns("TKN")
		token.ExpectCall("decimals").InSequence(seq).Once().Returns(18)
		token.ExpectCall("totalSupply").InSequence(seq).Once().ReturnsError("failed calculating total supply")

		methods := []string{"name", "symbol", "decimals", "totalSupply"}
		results := make([]hexutil.Bytes, len(methods))
		batch := make([]gethrpc.BatchElem, len(methods))
		for i, method := range methods {
			batch[i] = gethrpc.BatchElem{
				Method: "eth_call",
				Args: []any{
					map[string]any{"to": token.Address(), "data": hexutil.Bytes(token.Pack(method))},
					"latest",
				},
				Result: &results[i],
			}
		}
		Expect(rpcCl.BatchCallContext(ctx, batch)).To(Succeed())

		for i, want := range []any{"Token", "TKN", uint8(18)} {
			Expect(batch[i].Error).To(BeNil())
			values, err := token.ABI().Methods[methods[i]].Outputs.Unpack(results[i])
			Expect(err).To(BeNil())
			Expect(values).To(Equal([]any{want}))
		}
		Expect(batch[3].Error).To(MatchError(ContainSubstring("failed calculating total supply")))

		Expect(m.Verify()).To(Succeed())
	})

	It("refuses to sign transactions", func() {
		err := rpcCl.CallContext(ctx, nil, "eth_sendTransaction", map[string]any{"from": alice, "to": bob})
		Expect(err).To(MatchError(ContainSubstring("mock node can't sign transactions")))

		_, aborts := reporter.Counts()
		Expect(aborts).To(Equal(1))
	})
})
