package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	gethprom "github.com/ethereum/go-ethereum/metrics/prometheus"

	"cosmossdk.io/log"
)

// ServeGethMetrics exposes registry in the prometheus text format on addr
// until ctx is canceled.
func ServeGethMetrics(ctx context.Context, logger log.Logger, addr string, registry gethmetrics.Registry) error {
	logger = logger.With("module", "metrics")

	// Create a custom mux instead of using the global default
	mux := http.NewServeMux()
	mux.Handle("/metrics", gethprom.Handler(registry))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down metrics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
