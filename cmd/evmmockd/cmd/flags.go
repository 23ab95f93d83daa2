package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cosmos/evmmock/config"
	serverconfig "github.com/cosmos/evmmock/server/config"
)

// Node flags
const (
	FlagChainID       = "chain-id"
	FlagGasPrice      = "gas-price"
	FlagGenesisTime   = "genesis-time"
	FlagBlockTime     = "block-time"
	FlagBlockGasLimit = "block-gas-limit"
	FlagEstimateGas   = "estimate-gas"
	FlagCallGas       = "call-gas"
)

// Server flags
const (
	FlagAddress        = "address"
	FlagCORSOrigins    = "cors-origins"
	FlagMetrics        = "metrics"
	FlagMetricsAddress = "metrics-address"
	FlagLogLevel       = "log-level"
)

const (
	FlagHome     = "home"
	FlagScenario = "scenario"
)

// AddNodeFlags adds the mock node flags to cmd and binds them to viper.
func AddNodeFlags(cmd *cobra.Command) error {
	def := config.DefaultConfig()
	cmd.Flags().Uint64(FlagChainID, def.ChainID, "the chain id answered by eth_chainId and required in signatures")
	cmd.Flags().String(FlagGasPrice, def.GasPrice, "the gas price in wei, decimal or 0x-prefixed hex")
	cmd.Flags().Uint64(FlagGenesisTime, def.GenesisTime, "the unix timestamp of block 0")
	cmd.Flags().Uint64(FlagBlockTime, def.BlockTime, "the number of seconds between blocks")
	cmd.Flags().Uint64(FlagBlockGasLimit, def.BlockGasLimit, "the gas limit stamped on block headers")
	cmd.Flags().Uint64(FlagEstimateGas, def.EstimateGas, "the gas answered by eth_estimateGas when an expectation sets none")
	cmd.Flags().Uint64(FlagCallGas, def.CallGas, "the gas of eth_call requests without a gas field")

	return bindFlags(cmd, FlagChainID, FlagGasPrice, FlagGenesisTime, FlagBlockTime, FlagBlockGasLimit, FlagEstimateGas, FlagCallGas)
}

// AddServerFlags adds the HTTP server flags to cmd and binds them to viper.
func AddServerFlags(cmd *cobra.Command) error {
	def := serverconfig.DefaultConfig()
	cmd.Flags().String(FlagAddress, def.Address, "the JSON-RPC server address to listen on")
	cmd.Flags().StringSlice(FlagCORSOrigins, def.CORSOrigins, "the origins allowed to call the server, any origin when empty")
	cmd.Flags().Bool(FlagMetrics, def.EnableMetrics, "serve prometheus metrics")
	cmd.Flags().String(FlagMetricsAddress, def.MetricsAddress, "the metrics server address to listen on")
	cmd.Flags().String(FlagLogLevel, def.LogLevel, "the log level (debug|info|warn|error)")

	return bindFlags(cmd, FlagAddress, FlagCORSOrigins, FlagMetrics, FlagMetricsAddress, FlagLogLevel)
}

func bindFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}
