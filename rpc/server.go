// Package rpc serves the Ethereum JSON-RPC methods of the mock node. Every
// request runs under one lock, so concurrent clients observe a total order.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/cosmos/evmmock/metrics"
	"github.com/cosmos/evmmock/rpc/backend"
	rpctypes "github.com/cosmos/evmmock/rpc/types"
	"github.com/cosmos/evmmock/trace"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
)

// maxBodySize bounds request bodies read by ServeHTTP.
const maxBodySize = 5 * 1024 * 1024

// codedError is an error answered to the client as a regular JSON-RPC error.
type codedError interface {
	error
	ErrorCode() int
}

type dataError interface {
	ErrorData() any
}

// Server dispatches JSON-RPC requests to the backend.
type Server struct {
	mu       sync.Mutex
	logger   log.Logger
	backend  *backend.Backend
	reporter types.Reporter
	recorder *metrics.Recorder
}

// NewServer creates a server. Errors of the calling test (protocol and
// configuration errors) are delivered to reporter.Fatalf when it is not nil;
// the client still receives them as JSON-RPC errors.
func NewServer(logger log.Logger, b *backend.Backend, reporter types.Reporter, recorder *metrics.Recorder) *Server {
	return &Server{
		logger:   logger.With("module", "rpc"),
		backend:  b,
		reporter: reporter,
		recorder: recorder,
	}
}

// WithBackend runs fn while holding the server lock.
func (s *Server) WithBackend(fn func(b *backend.Backend)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.backend)
}

// Do handles a single or a batch request and returns the encoded response.
// Batch elements are dispatched one by one in request order.
func (s *Server) Do(ctx context.Context, body []byte) []byte {
	var (
		out    any
		aborts []string
	)

	if gjson.ParseBytes(body).IsArray() {
		var batch []json.RawMessage
		if err := json.Unmarshal(body, &batch); err != nil {
			out = errorResponse(nil, rpctypes.ErrCodeParseError, "parse error: "+err.Error())
		} else if len(batch) == 0 {
			out = errorResponse(nil, rpctypes.ErrCodeInvalidRequest, "empty batch")
		} else {
			responses := make([]*rpctypes.Response, len(batch))
			for i, raw := range batch {
				var abort string
				responses[i], abort = s.handle(ctx, raw)
				if abort != "" {
					aborts = append(aborts, abort)
				}
			}
			out = responses
		}
	} else {
		resp, abort := s.handle(ctx, body)
		if abort != "" {
			aborts = append(aborts, abort)
		}
		out = resp
	}

	bz, err := json.Marshal(out)
	if err != nil {
		// responses only hold marshaled results
		panic(err)
	}

	if len(aborts) > 0 && s.reporter != nil {
		s.reporter.Helper()
		s.reporter.Fatalf("mock node: %s", strings.Join(aborts, "\n"))
	}
	return bz
}

// handle dispatches one request. The returned string is non-empty when the
// request failed with an error of the calling test.
func (s *Server) handle(ctx context.Context, raw json.RawMessage) (*rpctypes.Response, string) {
	var req rpctypes.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(nil, rpctypes.ErrCodeParseError, "parse error: "+err.Error()), ""
	}
	if req.Method == "" {
		return errorResponse(req.ID, rpctypes.ErrCodeInvalidRequest, "request has no method"), ""
	}

	_, span := trace.StartMethod(ctx, req.Method)
	start := time.Now()
	s.logger.Debug("rpc request", "method", req.Method)

	result, err := s.dispatch(req.Method, req.Params)

	s.recorder.Call(req.Method, start)
	trace.EndSpanErr(span, err)

	if err == nil {
		bz, marshalErr := json.Marshal(result)
		if marshalErr == nil {
			return &rpctypes.Response{JSONRPC: rpctypes.Version, ID: req.ID, Result: bz}, ""
		}
		err = fmt.Errorf("can't encode result: %w", marshalErr)
	}

	var coded codedError
	switch {
	case errors.As(err, &coded):
		s.recorder.Error(req.Method)
		s.logger.Debug("rpc error", "method", req.Method, "err", err)
		obj := &rpctypes.ErrorObject{Code: coded.ErrorCode(), Message: coded.Error()}
		if withData, ok := coded.(dataError); ok {
			obj.Data = withData.ErrorData()
		}
		return &rpctypes.Response{JSONRPC: rpctypes.Version, ID: req.ID, Error: obj}, ""

	case errors.Is(err, types.ErrNoExpectation):
		// counted as a failure by the verification at teardown
		s.recorder.Error(req.Method)
		s.logger.Info("unexpected call", "method", req.Method, "err", err)
		return errorResponse(req.ID, rpctypes.ErrCodeServer, err.Error()), ""
	}

	s.recorder.Abort(req.Method)
	s.logger.Error("rpc request aborted", "method", req.Method, "err", err)

	code := rpctypes.ErrCodeServer
	switch {
	case errors.Is(err, types.ErrUnknownMethod):
		code = rpctypes.ErrCodeMethodNotFound
	case errors.Is(err, types.ErrInvalidParams):
		code = rpctypes.ErrCodeInvalidParams
	}
	return errorResponse(req.ID, code, err.Error()), fmt.Sprintf("%s failed: %s", req.Method, err)
}

// dispatch runs one method under the server lock. Predicates and generators
// of the test run here, so a panic is turned into an error and the lock is
// released even when they exit the goroutine.
func (s *Server) dispatch(method string, params json.RawMessage) (result any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, errorsmod.Wrapf(types.ErrPanic, "%v", r)
		}
	}()
	return s.handleMethod(method, params)
}

func errorResponse(id json.RawMessage, code int, msg string) *rpctypes.Response {
	return &rpctypes.Response{
		JSONRPC: rpctypes.Version,
		ID:      id,
		Error:   &rpctypes.ErrorObject{Code: code, Message: msg},
	}
}

// ServeHTTP handles JSON-RPC requests posted over HTTP.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "can't read request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(s.Do(r.Context(), body)); err != nil {
		s.logger.Error("failed to write response", "err", err)
	}
}
