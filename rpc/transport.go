package rpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Endpoint is the URL go-ethereum clients dial; requests never leave the process.
const Endpoint = "http://evmmock.local"

// Transport is an http.RoundTripper that hands requests to a Server directly.
type Transport struct {
	server *Server
}

// NewTransport returns a transport delivering to server.
func NewTransport(server *Server) *Transport {
	return &Transport{server: server}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	out := t.server.Do(req.Context(), body)

	return &http.Response{
		Status:     "200 OK",
		StatusCode: http.StatusOK,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header: http.Header{
			"Content-Type":   []string{"application/json"},
			"Content-Length": []string{strconv.Itoa(len(out))},
		},
		Body:          io.NopCloser(bytes.NewReader(out)),
		ContentLength: int64(len(out)),
		Request:       req,
	}, nil
}

// DialInProc returns a go-ethereum RPC client talking to server.
func DialInProc(ctx context.Context, server *Server) (*rpc.Client, error) {
	httpClient := &http.Client{Transport: NewTransport(server)}
	return rpc.DialOptions(ctx, Endpoint, rpc.WithHTTPClient(httpClient))
}

// NewEthClient wraps DialInProc in an ethclient.
func NewEthClient(ctx context.Context, server *Server) (*ethclient.Client, error) {
	client, err := DialInProc(ctx, server)
	if err != nil {
		return nil, err
	}
	return ethclient.NewClient(client), nil
}
