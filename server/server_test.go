package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/evmmock"
	rpctypes "github.com/cosmos/evmmock/rpc/types"
	"github.com/cosmos/evmmock/server"
	"github.com/cosmos/evmmock/server/config"

	"cosmossdk.io/log"
)

func newRouter(t *testing.T, cfg config.Config) (http.Handler, *server.Reporter) {
	t.Helper()
	reporter := server.NewReporter(log.NewNopLogger())
	m := evmmock.New(reporter, 1234)
	return server.NewRouter(log.NewNopLogger(), m.Handler(), cfg), reporter
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter(t *testing.T) {
	h, reporter := newRouter(t, config.DefaultConfig())

	rr := post(h, `{"jsonrpc":"2.0","id":1,"method":"eth_chainId","params":[]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp rpctypes.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Nil(t, resp.Error)
	require.JSONEq(t, `"0x4d2"`, string(resp.Result))

	rr = post(h, `{"jsonrpc":"2.0","id":2,"method":"eth_sendTransaction","params":[{}]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Contains(t, resp.Error.Message, "mock node can't sign transactions")

	errs, aborts := reporter.Counts()
	require.Zero(t, errs)
	require.Equal(t, 1, aborts)
	require.True(t, reporter.Failed())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterCORS(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CORSOrigins = []string{"http://wallet.local"}
	h, _ := newRouter(t, cfg)

	testCases := []struct {
		origin  string
		allowed bool
	}{
		{"http://wallet.local", true},
		{"http://evil.local", false},
	}
	for _, tc := range testCases {
		t.Run(tc.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if tc.allowed {
				require.Equal(t, tc.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				require.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRouterRecovers(t *testing.T) {
	h := server.NewRouter(log.NewNopLogger(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), config.DefaultConfig())

	rr := post(h, `{}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp rpctypes.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, rpctypes.ErrCodeInternal, resp.Error.Code)
	require.Equal(t, "boom", resp.Error.Message)
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h, _ := newRouter(t, config.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, log.NewNopLogger(), l, h) }()

	resp, err := http.Post("http://"+l.Addr().String(), "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"net_version","params":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out rpctypes.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.JSONEq(t, `"1234"`, string(out.Result))

	cancel()
	require.NoError(t, <-done)
}

func TestSlogBridge(t *testing.T) {
	var buf bytes.Buffer
	logger := server.NewSlogLogger(log.NewLogger(&buf, log.ColorOption(false)), "info")

	logger.Debug("hidden message")
	logger.With("block", 7).WithGroup("tx").Info("mined", "index", 2)
	logger.Error("failed", "reason", "nonce")

	out := buf.String()
	require.NotContains(t, out, "hidden message")
	require.Contains(t, out, "mined")
	require.Contains(t, out, "block=7")
	require.Contains(t, out, "tx.index=2")
	require.Contains(t, out, "failed")
	require.Contains(t, out, "reason=nonce")
}
