package server

import (
	"fmt"
	"sync"

	"cosmossdk.io/log"
)

// Reporter logs failures of a node that is not driven by a test. Aborts are
// logged and counted; the node keeps serving.
type Reporter struct {
	logger log.Logger

	mu     sync.Mutex
	errors int
	aborts int
}

// NewReporter returns a reporter logging to logger.
func NewReporter(logger log.Logger) *Reporter {
	return &Reporter{logger: logger.With("module", "reporter")}
}

func (r *Reporter) Errorf(format string, args ...any) {
	r.mu.Lock()
	r.errors++
	r.mu.Unlock()
	r.logger.Error(fmt.Sprintf(format, args...))
}

func (r *Reporter) Fatalf(format string, args ...any) {
	r.mu.Lock()
	r.aborts++
	r.mu.Unlock()
	r.logger.Error("request aborted", "reason", fmt.Sprintf(format, args...))
}

func (r *Reporter) Helper() {}

// Failed reports whether any failure was reported.
func (r *Reporter) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors > 0 || r.aborts > 0
}

// Counts returns the number of verification failures and aborted requests.
func (r *Reporter) Counts() (errors, aborts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors, r.aborts
}
