// Package server serves a mock node over HTTP for processes outside the test
// binary, such as clients written in other languages.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/cosmos/evmmock/rpc/types"
	"github.com/cosmos/evmmock/server/config"

	"cosmossdk.io/log"
)

// NewRouter mounts the JSON-RPC handler on "/" next to a health endpoint,
// recovers handler panics and applies the CORS policy of cfg.
func NewRouter(logger log.Logger, rpcHandler http.Handler, cfg config.Config) http.Handler {
	router := mux.NewRouter()
	router.Handle("/", rpcHandler).Methods(http.MethodPost)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	}).Methods(http.MethodGet)
	router.Use(recoverMiddleware(logger))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(router)
}

func recoverMiddleware(logger log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic serving request", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
					writeInternalError(w, fmt.Sprint(rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeInternalError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(types.Response{
		JSONRPC: types.Version,
		ID:      json.RawMessage("null"),
		Error:   &types.ErrorObject{Code: types.ErrCodeInternal, Message: msg},
	})
}
