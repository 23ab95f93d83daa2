package config_test

import (
	"reflect"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	serverconfig "github.com/cosmos/evmmock/server/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := serverconfig.DefaultConfig()
	require.Equal(t, serverconfig.DefaultAddress, cfg.Address)
	require.Equal(t, serverconfig.DefaultMetricsAddress, cfg.MetricsAddress)
	require.False(t, cfg.EnableMetrics)
	require.Empty(t, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *serverconfig.Config)
		errText string
	}{
		{
			name:    "address without port",
			mutate:  func(c *serverconfig.Config) { c.Address = "localhost" },
			errText: "invalid address",
		},
		{
			name: "bad metrics address",
			mutate: func(c *serverconfig.Config) {
				c.EnableMetrics = true
				c.MetricsAddress = "metrics"
			},
			errText: "invalid metrics-address",
		},
		{
			name: "metrics on the rpc address",
			mutate: func(c *serverconfig.Config) {
				c.EnableMetrics = true
				c.MetricsAddress = c.Address
			},
			errText: "can't be the same as address",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *serverconfig.Config) { c.LogLevel = "trace" },
			errText: "invalid log-level",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := serverconfig.DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    func() *viper.Viper
		want    func() serverconfig.Config
		wantErr bool
	}{
		{
			"defaults",
			viper.New,
			serverconfig.DefaultConfig,
			false,
		},
		{
			"unmarshal metrics and origins",
			func() *viper.Viper {
				v := viper.New()
				v.Set("metrics", true)
				v.Set("metrics-address", "0.0.0.0:9090")
				v.Set("cors-origins", []string{"http://localhost:3000"})
				return v
			},
			func() serverconfig.Config {
				cfg := serverconfig.DefaultConfig()
				cfg.EnableMetrics = true
				cfg.MetricsAddress = "0.0.0.0:9090"
				cfg.CORSOrigins = []string{"http://localhost:3000"}
				return cfg
			},
			false,
		},
		{
			"invalid log level",
			func() *viper.Viper {
				v := viper.New()
				v.Set("log-level", "loud")
				return v
			},
			func() serverconfig.Config { return serverconfig.Config{} },
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serverconfig.GetConfig(tt.args())
			if (err != nil) != tt.wantErr {
				t.Errorf("GetConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want()) {
				t.Errorf("GetConfig() got = %v, want %v", got, tt.want())
			}
		})
	}
}
