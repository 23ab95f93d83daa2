package evmmock

import (
	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	"github.com/holiman/uint256"

	"github.com/cosmos/evmmock/config"

	"cosmossdk.io/log"
)

// Option configures a Mock.
type Option func(*options)

type options struct {
	cfg      config.Config
	logger   log.Logger
	registry gethmetrics.Registry
}

// WithConfig replaces the node configuration. The chain id passed to New wins
// over cfg.ChainID.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger of the node. Nodes log nothing by default.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithGasPrice sets the initial gas price in wei.
func WithGasPrice(price *uint256.Int) Option {
	return func(o *options) { o.cfg.GasPrice = price.Dec() }
}

// WithBlockTime sets the number of virtual seconds between blocks.
func WithBlockTime(seconds uint64) Option {
	return func(o *options) { o.cfg.BlockTime = seconds }
}

// WithMetrics records node activity in registry instead of a private one.
func WithMetrics(registry gethmetrics.Registry) Option {
	return func(o *options) { o.registry = registry }
}
