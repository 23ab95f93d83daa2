package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	"github.com/stretchr/testify/require"

	"cosmossdk.io/log"
)

func TestRecorder(t *testing.T) {
	gethmetrics.Enable()
	r := NewRecorder(gethmetrics.NewRegistry())

	r.Call("eth_call", time.Now())
	r.Call("eth_call", time.Now())
	r.Error("eth_call")
	r.Abort("eth_getTransactionReceipt")
	r.BlocksMined(3)
	r.Transaction(false)
	r.Transaction(true)

	require.Equal(t, int64(2), r.Count("rpc/eth_call/calls"))
	require.Equal(t, int64(1), r.Count("rpc/eth_call/errors"))
	require.Equal(t, int64(1), r.Count("rpc/eth_getTransactionReceipt/aborts"))
	require.Equal(t, int64(3), r.Count("chain/blocks"))
	require.Equal(t, int64(1), r.Count("chain/txs/succeeded"))
	require.Equal(t, int64(1), r.Count("chain/txs/reverted"))
	require.Zero(t, r.Count("rpc/eth_chainId/calls"))

	// a nil recorder is a no-op
	var nop *Recorder
	nop.Call("eth_call", time.Now())
	nop.BlocksMined(1)
}

func TestServeGethMetrics(t *testing.T) {
	gethmetrics.Enable()
	registry := gethmetrics.NewRegistry()
	NewRecorder(registry).BlocksMined(2)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeGethMetrics(ctx, log.NewNopLogger(), addr, registry) }()

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	require.Contains(t, string(body), "evmmock_chain_blocks")

	cancel()
	require.NoError(t, <-done)
}
