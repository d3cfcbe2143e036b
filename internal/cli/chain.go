package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/rewardchain/internal/config"
	"github.com/tcfw/rewardchain/internal/export"
	"github.com/tcfw/rewardchain/internal/node"
	"github.com/tcfw/rewardchain/pkg/hashing"
	"github.com/tcfw/rewardchain/pkg/storage"
)

var (
	chainCmd = &cobra.Command{
		Use:   "chain",
		Short: "Chain commands",
	}

	chain_verifyCmd = &cobra.Command{
		Use:   "verify <audit.json>",
		Short: "verify an exported audit log",
		Args:  cobra.ExactArgs(1),
		RunE:  runChainVerify,
	}

	chain_showCmd = &cobra.Command{
		Use:   "show",
		Short: "list blocks in the configured block store",
		RunE:  runChainShow,
	}
)

func runChainVerify(cmd *cobra.Command, args []string) error {
	blocks, err := export.ReadJSON(args[0])
	if err != nil {
		return err
	}

	if err := storage.VerifyChain(blocks); err != nil {
		return errors.Wrap(err, "verifying chain")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d blocks\n", len(blocks))

	return nil
}

func runChainShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	s, err := node.OpenStore(cfg.Storage())
	if err != nil {
		return err
	}
	defer s.Stop()

	blocks, err := s.Blocks(ctx)
	if err != nil {
		return errors.Wrap(err, "reading blocks")
	}

	return printBlocks(cmd.OutOrStdout(), blocks)
}

func printBlocks(out io.Writer, blocks []*storage.Block) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "INDEX\tTIME\tKIND\tWINNER\tAMOUNT\tDIFFICULTY\tHASH")
	for _, b := range blocks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			b.Index,
			b.CreatedAt.Format(time.RFC3339),
			b.RewardKind,
			b.Winner,
			b.RewardAmount,
			hashing.FormatDifficulty(b.Difficulty),
			b.IntegrityHash[:min(16, len(b.IntegrityHash))],
		)
	}

	return w.Flush()
}
