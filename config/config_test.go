package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/evmmock/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, config.DefaultChainID, cfg.ChainID)
	require.Equal(t, config.DefaultEstimateGas, cfg.EstimateGas)

	price, err := cfg.GasPriceValue()
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(1), price)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		errText string
	}{
		{
			name:    "zero chain id",
			mutate:  func(c *config.Config) { c.ChainID = 0 },
			errText: "chain-id must be greater than 0",
		},
		{
			name:    "empty gas price",
			mutate:  func(c *config.Config) { c.GasPrice = "" },
			errText: "gas-price can't be empty",
		},
		{
			name:    "malformed gas price",
			mutate:  func(c *config.Config) { c.GasPrice = "1gwei" },
			errText: "invalid gas-price",
		},
		{
			name:    "zero block gas limit",
			mutate:  func(c *config.Config) { c.BlockGasLimit = 0 },
			errText: "block-gas-limit must be greater than 0",
		},
		{
			name:    "zero estimate gas",
			mutate:  func(c *config.Config) { c.EstimateGas = 0 },
			errText: "estimate-gas must be greater than 0",
		},
		{
			name:    "zero call gas",
			mutate:  func(c *config.Config) { c.CallGas = 0 },
			errText: "call-gas must be greater than 0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestGasPriceValue(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.GasPrice = "0x3b9aca00"
	price, err := cfg.GasPriceValue()
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), price.Uint64())

	cfg.GasPrice = "2000000000"
	price, err = cfg.GasPriceValue()
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000_000), price.Uint64())
}

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    func() *viper.Viper
		want    func() config.Config
		wantErr bool
	}{
		{
			"defaults",
			viper.New,
			config.DefaultConfig,
			false,
		},
		{
			"overrides",
			func() *viper.Viper {
				v := viper.New()
				v.Set("chain-id", 1234)
				v.Set("gas-price", "0x10")
				v.Set("block-time", 2)
				return v
			},
			func() config.Config {
				cfg := config.DefaultConfig()
				cfg.ChainID = 1234
				cfg.GasPrice = "0x10"
				cfg.BlockTime = 2
				return cfg
			},
			false,
		},
		{
			"invalid",
			func() *viper.Viper {
				v := viper.New()
				v.Set("chain-id", 0)
				return v
			},
			nil,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.GetConfig(tt.args())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want(), got)
		})
	}
}

const scenarioYAML = `
contracts:
  - name: token
    abi: erc20.json
    expectations:
      - method: name
        returns: ["Token"]
        times: {exactly: 1}
        sequence: setup
      - method: transfer
        args: ["0x00000000000000000000000000000000000000bb", 1000]
        confirmations: 2
        gas: 42000
        emits:
          - event: Transfer
            args: ["0x00000000000000000000000000000000000000aa", "0x00000000000000000000000000000000000000bb", "1000"]
      - method: balanceOf
        revert: frozen
`

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "erc20.json"), []byte(`[]`), 0o600))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o600))

	s, err := config.LoadScenario(path)
	require.NoError(t, err)
	require.Len(t, s.Contracts, 1)

	token := s.Contracts[0]
	require.Equal(t, "token", token.Name)
	require.JSONEq(t, `[]`, string(token.ABIJSON))
	require.Len(t, token.Expectations, 3)

	name := token.Expectations[0]
	require.Equal(t, uint64(1), *name.Times.Exactly)
	require.Equal(t, "setup", name.Sequence)
	require.Equal(t, []any{"Token"}, config.Values(name.Returns))

	transfer := token.Expectations[1]
	require.Equal(t, []any{"0x00000000000000000000000000000000000000bb", json.Number("1000")}, config.Values(transfer.Args))
	require.Equal(t, uint64(42000), *transfer.Gas)
	require.Equal(t, "Transfer", transfer.Emits[0].Event)

	require.Equal(t, "frozen", *token.Expectations[2].Revert)

	_, err = config.LoadScenario(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		errText string
	}{
		{"no name", `contracts: [{abiJson: []}]`, "contract 0 has no name"},
		{"duplicate name", `contracts: [{name: a, abiJson: []}, {name: a, abiJson: []}]`, `contract name "a" is used twice`},
		{"no abi", `contracts: [{name: a}]`, "neither abi nor abiJson"},
		{"no method", `contracts: [{name: a, abiJson: [], expectations: [{}]}]`, "method is required"},
		{
			"two responses",
			`contracts: [{name: a, abiJson: [], expectations: [{method: f, returns: [1], error: boom}]}]`,
			"more than one of returns, revert and error",
		},
		{
			"inverted times",
			`contracts: [{name: a, abiJson: [], expectations: [{method: f, times: {min: 3, max: 1}}]}]`,
			"times max 1 is below min 3",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.ParseScenario([]byte(tc.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestValues(t *testing.T) {
	require.Nil(t, config.Values(nil))
	require.Equal(t, []any{json.Number("7")}, config.Values(json.RawMessage(`7`)))
	require.Equal(t,
		[]any{[]any{true, false}, map[string]any{"a": "x", "b": nil}, json.Number("115792089237316195423570985008687907853269984665640564039457584007913129639935")},
		config.Values(json.RawMessage(`[[true,false],{"a":"x","b":null},115792089237316195423570985008687907853269984665640564039457584007913129639935]`)),
	)
}
