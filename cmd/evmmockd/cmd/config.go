package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configFileName is looked up in the home directory.
const configFileName = "evmmockd.yaml"

// InitConfig loads <home>/evmmockd.yaml into viper when it exists and lets
// EVMMOCK_* environment variables override it. Flags bound to viper win over both.
func InitConfig(cmd *cobra.Command) error {
	home, err := cmd.Flags().GetString(FlagHome)
	if err != nil {
		return err
	}

	viper.SetEnvPrefix("evmmock")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configFile := filepath.Join(home, configFileName)
	stat, err := os.Stat(configFile)
	switch {
	case err == nil && !stat.IsDir():
		viper.SetConfigFile(configFile)
		return viper.ReadInConfig()
	case err != nil && !os.IsNotExist(err):
		return err
	}
	return nil
}
