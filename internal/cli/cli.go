package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/rewardchain/internal/config"
	"github.com/tcfw/rewardchain/internal/node"
)

var (
	rootCmd = &cobra.Command{
		Use:   "rewardchain",
		Short: "run the reward ledger node",
		RunE:  run,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address")
	viper.BindPFlag(config.Cfg_metrics_listen, rootCmd.Flags().Lookup("metrics-addr"))

	rootCmd.Flags().String("data-dir", "", "block store directory. blank keeps blocks in memory")
	viper.BindPFlag(config.Cfg_storage_dataDir, rootCmd.Flags().Lookup("data-dir"))

	rootCmd.Flags().String("acceptance", "immediate", "challenge acceptance mode: immediate or gated")
	viper.BindPFlag(config.Cfg_consensus_traffic_acceptance, rootCmd.Flags().Lookup("acceptance"))
}

func Execute() error {
	regCommands()

	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n, err := node.NewNode(ctx)
	if err != nil {
		return errors.Wrap(err, "initing node")
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- n.ListenAndServe(ctx)
	}()

	select {
	case err := <-errCh:
		n.Stop()
		return err
	case <-waitExit():
		cancel()
		<-errCh
		return n.Stop()
	}
}

func waitExit() <-chan os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return sigs
}
