package cmd_test

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/evmmock"
	"github.com/cosmos/evmmock/cmd/evmmockd/cmd"
	"github.com/cosmos/evmmock/testutil"
	"github.com/cosmos/evmmock/testutil/contracts"

	"cosmossdk.io/log"
)

const scenarioYAML = `
contracts:
  - name: token
    abi: erc20.json
    expectations:
      - method: decimals
        times: {exactly: 1}
        returns: [6]
`

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "erc20.json"), contracts.ERC20JSON, 0o600))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o600))
	return path
}

func startNode(t *testing.T, v *viper.Viper, scenario string) (*ethclient.Client, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- cmd.Run(ctx, log.NewNopLogger(), v, scenario, func(addr string) { ready <- addr })
	}()

	select {
	case addr := <-ready:
		client, err := ethclient.Dial("http://" + addr)
		require.NoError(t, err)
		t.Cleanup(client.Close)
		return client, cancel, done
	case err := <-done:
		cancel()
		t.Fatalf("node stopped before listening: %v", err)
		return nil, nil, nil
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.Set(cmd.FlagAddress, "127.0.0.1:0")
	v.Set(cmd.FlagChainID, 4321)
	return v
}

func TestRunScenario(t *testing.T) {
	client, cancel, done := startNode(t, newViper(), writeScenario(t))
	ctx := context.Background()

	id, err := client.ChainID(ctx)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(4321), id)

	// deploy addresses only depend on the interface and the deploy order
	token := evmmock.New(&testutil.Reporter{}, 1).Deploy(contracts.ERC20JSON)
	to := token.Address()
	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: token.Pack("decimals")}, nil)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(6), new(big.Int).SetBytes(out))

	cancel()
	require.NoError(t, <-done)
}

func TestRunReportsUnmetExpectations(t *testing.T) {
	_, cancel, done := startNode(t, newViper(), writeScenario(t))
	cancel()

	err := <-done
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 verification reports")
}

func TestRunInvalidConfig(t *testing.T) {
	v := newViper()
	v.Set(cmd.FlagGasPrice, "cheap")
	err := cmd.Run(context.Background(), log.NewNopLogger(), v, "", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid gas-price")
}

func TestVersionCommand(t *testing.T) {
	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "evmmock/")
}
