// Package config holds the configuration of a mock node and the scenario
// files served by evmmockd.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/viper"
)

const (
	// DefaultChainID is the chain id of nodes started without one.
	DefaultChainID uint64 = 1337
	// DefaultGasPrice is answered by eth_gasPrice, in wei.
	DefaultGasPrice = "1"
	// DefaultBlockTime is the number of virtual seconds between blocks.
	DefaultBlockTime uint64 = 12
	// DefaultBlockGasLimit is stamped on every block header.
	DefaultBlockGasLimit uint64 = 30_000_000
	// DefaultEstimateGas is answered by eth_estimateGas when the expectation sets no gas.
	DefaultEstimateGas uint64 = 1_000_000
	// DefaultCallGas is the gas of eth_call requests without a gas field.
	DefaultCallGas uint64 = 50_000_000
)

// Config defines the mock node configuration.
type Config struct {
	ChainID uint64 `mapstructure:"chain-id"`
	// GasPrice is a decimal or 0x-prefixed hex amount of wei.
	GasPrice      string `mapstructure:"gas-price"`
	GenesisTime   uint64 `mapstructure:"genesis-time"`
	BlockTime     uint64 `mapstructure:"block-time"`
	BlockGasLimit uint64 `mapstructure:"block-gas-limit"`
	EstimateGas   uint64 `mapstructure:"estimate-gas"`
	CallGas       uint64 `mapstructure:"call-gas"`
}

// DefaultConfig returns the default mock node configuration.
func DefaultConfig() Config {
	return Config{
		ChainID:       DefaultChainID,
		GasPrice:      DefaultGasPrice,
		BlockTime:     DefaultBlockTime,
		BlockGasLimit: DefaultBlockGasLimit,
		EstimateGas:   DefaultEstimateGas,
		CallGas:       DefaultCallGas,
	}
}

// Validate returns an error if the configuration fields are invalid.
func (c Config) Validate() error {
	if c.ChainID == 0 {
		return errors.New("chain-id must be greater than 0")
	}
	if _, err := c.GasPriceValue(); err != nil {
		return err
	}
	if c.BlockGasLimit == 0 {
		return errors.New("block-gas-limit must be greater than 0")
	}
	if c.EstimateGas == 0 {
		return errors.New("estimate-gas must be greater than 0")
	}
	if c.CallGas == 0 {
		return errors.New("call-gas must be greater than 0")
	}
	return nil
}

// GasPriceValue parses GasPrice.
func (c Config) GasPriceValue() (*uint256.Int, error) {
	s := strings.TrimSpace(c.GasPrice)
	if s == "" {
		return nil, errors.New("gas-price can't be empty")
	}

	var (
		price *uint256.Int
		err   error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		price, err = uint256.FromHex(s)
	} else {
		price, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid gas-price %q: %w", c.GasPrice, err)
	}
	return price, nil
}

// GetConfig returns a fully parsed Config object.
func GetConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error extracting mock node config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
