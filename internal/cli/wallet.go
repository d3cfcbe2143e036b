package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tcfw/rewardchain/internal/config"
	"github.com/tcfw/rewardchain/internal/wallet"
	"github.com/tcfw/rewardchain/pkg/storage"
)

var (
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "Wallet commands",
	}

	wallet_initCmd = &cobra.Command{
		Use:   "init <registry.yaml>",
		Short: "create a participant registry with the default participants",
		Args:  cobra.ExactArgs(1),
		RunE:  runWalletInit,
	}

	wallet_addCmd = &cobra.Command{
		Use:   "add <registry.yaml> <address>",
		Short: "register a participant",
		Args:  cobra.ExactArgs(2),
		RunE:  runWalletAdd,
	}
)

func init() {
	wallet_initCmd.Flags().String("node", "", "node address. blank uses the configured address")
	wallet_addCmd.Flags().String("node", "", "node address. blank uses the configured address")
}

func openWallet(cmd *cobra.Command, path string) (*wallet.Wallet, error) {
	addr, _ := cmd.Flags().GetString("node")
	if addr == "" {
		cfg, err := config.GetConfig()
		if err != nil {
			return nil, err
		}
		addr = cfg.Wallet().NodeAddress
	}

	return wallet.NewFileWallet(path, storage.ParticipantID(addr))
}

func runWalletInit(cmd *cobra.Command, args []string) error {
	w, err := openWallet(cmd, args[0])
	if err != nil {
		return err
	}

	return listParticipants(cmd, w)
}

func runWalletAdd(cmd *cobra.Command, args []string) error {
	w, err := openWallet(cmd, args[0])
	if err != nil {
		return err
	}

	if err := w.Add(storage.ParticipantID(args[1])); err != nil {
		return err
	}

	return listParticipants(cmd, w)
}

func listParticipants(cmd *cobra.Command, w *wallet.Wallet) error {
	ps, err := w.ActiveParticipants(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "node: %s\n", w.Node())
	for _, p := range ps {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}

	return nil
}
