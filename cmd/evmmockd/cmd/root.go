// Package cmd implements the evmmockd command line.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cosmos/evmmock/rpc"
)

// NewRootCmd creates the evmmockd root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "evmmockd",
		Short:         "Mock Ethereum JSON-RPC node driven by scenario files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		NewStartCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the client version answered by web3_clientVersion",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), rpc.ClientVersion)
			},
		},
	)
	return rootCmd
}

// DefaultHome is the directory searched for evmmockd.yaml.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".evmmockd")
}
