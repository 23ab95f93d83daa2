package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"cosmossdk.io/log"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Serve runs handler on l until ctx is canceled, then shuts the server down
// gracefully.
func Serve(ctx context.Context, logger log.Logger, l net.Listener, handler http.Handler) error {
	logger = logger.With("module", "server")

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving mock node", "address", l.Addr().String())
		if err := server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down mock node server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
