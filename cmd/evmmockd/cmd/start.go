package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/cosmos/evmmock"
	"github.com/cosmos/evmmock/config"
	"github.com/cosmos/evmmock/metrics"
	"github.com/cosmos/evmmock/server"
	serverconfig "github.com/cosmos/evmmock/server/config"

	"cosmossdk.io/log"
)

// NewStartCmd creates the command serving a mock node until interrupted.
func NewStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve a mock node configured by a scenario file",
		Long: `Serve a mock node over HTTP. The contracts and expectations of the
scenario file are deployed before the server starts. On shutdown every
expectation is verified and the command fails when any is unmet or when a
request was aborted.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return InitConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenario, err := cmd.Flags().GetString(FlagScenario)
			if err != nil {
				return err
			}

			srvCfg, err := serverconfig.GetConfig(viper.GetViper())
			if err != nil {
				return err
			}
			level, err := zerolog.ParseLevel(srvCfg.LogLevel)
			if err != nil {
				return err
			}
			logger := log.NewLogger(cmd.ErrOrStderr(), log.LevelOption(level))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return Run(ctx, logger, viper.GetViper(), scenario, nil)
		},
	}

	cmd.Flags().String(FlagHome, DefaultHome(), "directory holding evmmockd.yaml")
	cmd.Flags().String(FlagScenario, "", "scenario file listing contracts and expectations")
	if err := AddNodeFlags(cmd); err != nil {
		panic(err)
	}
	if err := AddServerFlags(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// Run serves a node configured from v and the scenario at scenarioPath until
// ctx is canceled, then verifies it. ready, when set, receives the address
// the server listens on.
func Run(ctx context.Context, logger log.Logger, v *viper.Viper, scenarioPath string, ready func(addr string)) error {
	nodeCfg, err := config.GetConfig(v)
	if err != nil {
		return err
	}
	srvCfg, err := serverconfig.GetConfig(v)
	if err != nil {
		return err
	}

	scenario := &config.Scenario{}
	if scenarioPath != "" {
		if scenario, err = config.LoadScenario(scenarioPath); err != nil {
			return err
		}
	}

	server.SetGethLogger(server.NewSlogLogger(logger.With("module", "geth"), srvCfg.LogLevel))

	registry := gethmetrics.NewRegistry()
	reporter := server.NewReporter(logger)
	m := evmmock.New(
		reporter, nodeCfg.ChainID,
		evmmock.WithConfig(nodeCfg),
		evmmock.WithLogger(logger),
		evmmock.WithMetrics(registry),
	)
	if _, err := m.LoadScenario(scenario); err != nil {
		return err
	}

	l, err := net.Listen("tcp", srvCfg.Address)
	if err != nil {
		return fmt.Errorf("can't listen on %s: %w", srvCfg.Address, err)
	}
	if ready != nil {
		ready(l.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx, logger, l, server.NewRouter(logger, m.Handler(), srvCfg))
	})
	if srvCfg.EnableMetrics {
		g.Go(func() error {
			return metrics.ServeGethMetrics(gctx, logger, srvCfg.MetricsAddress, registry)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	m.Finish()
	if failures, aborts := reporter.Counts(); failures > 0 || aborts > 0 {
		return fmt.Errorf("mock node failed: %d verification reports, %d aborted requests", failures, aborts)
	}
	logger.Info("all expectations met")
	return nil
}
