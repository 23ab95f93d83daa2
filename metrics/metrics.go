// Package metrics records mock node activity in go-ethereum metric registries.
package metrics

import (
	"time"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
)

const prefix = "evmmock"

// Recorder registers counters lazily in one registry. A nil Recorder records nothing.
type Recorder struct {
	registry gethmetrics.Registry
}

// NewRecorder records into registry, or the go-ethereum default registry when nil.
func NewRecorder(registry gethmetrics.Registry) *Recorder {
	if registry == nil {
		registry = gethmetrics.DefaultRegistry
	}
	return &Recorder{registry: registry}
}

// Registry returns the registry metrics are recorded in.
func (r *Recorder) Registry() gethmetrics.Registry {
	return r.registry
}

// Call counts a dispatched JSON-RPC method and records how long it took.
func (r *Recorder) Call(method string, start time.Time) {
	if r == nil {
		return
	}
	gethmetrics.GetOrRegisterCounter(prefix+"/rpc/"+method+"/calls", r.registry).Inc(1)
	gethmetrics.GetOrRegisterTimer(prefix+"/rpc/"+method+"/duration", r.registry).UpdateSince(start)
}

// Error counts a method that answered with a JSON-RPC error.
func (r *Recorder) Error(method string) {
	if r == nil {
		return
	}
	gethmetrics.GetOrRegisterCounter(prefix+"/rpc/"+method+"/errors", r.registry).Inc(1)
}

// Abort counts a method that aborted the test.
func (r *Recorder) Abort(method string) {
	if r == nil {
		return
	}
	gethmetrics.GetOrRegisterCounter(prefix+"/rpc/"+method+"/aborts", r.registry).Inc(1)
}

// BlocksMined counts appended blocks.
func (r *Recorder) BlocksMined(n int) {
	if r == nil {
		return
	}
	gethmetrics.GetOrRegisterCounter(prefix+"/chain/blocks", r.registry).Inc(int64(n))
}

// Transaction counts a mined transaction by receipt status.
func (r *Recorder) Transaction(reverted bool) {
	if r == nil {
		return
	}
	name := prefix + "/chain/txs/succeeded"
	if reverted {
		name = prefix + "/chain/txs/reverted"
	}
	gethmetrics.GetOrRegisterCounter(name, r.registry).Inc(1)
}

// Count reads a counter, zero when it was never registered.
func (r *Recorder) Count(name string) int64 {
	if c, ok := r.registry.Get(prefix + "/" + name).(*gethmetrics.Counter); ok {
		return c.Snapshot().Count()
	}
	return 0
}
