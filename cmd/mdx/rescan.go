package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/franz/musicdex/internal/util"
)

var rescanCmd = &cobra.Command{
	Use:   "rescan",
	Short: "Re-index files that changed since they were indexed",
	Long: `Re-extract tags for indexed files that were modified on disk after
indexing, or that carry an explicit dirty mark. Unchanged files are
left alone, so this is much cheaper than a full reset and scan.`,
	RunE: runRescan,
}

func init() {
	rootCmd.AddCommand(rescanCmd)
}

func runRescan(cmd *cobra.Command, args []string) error {
	env, err := openEnv(true)
	if err != nil {
		return err
	}
	defer env.Close()

	startTime := time.Now()
	refreshed, err := env.orch.Rescan(context.Background(), env.userID)
	if err != nil {
		return fmt.Errorf("rescan failed: %w", err)
	}

	util.SuccessLog("Refreshed %d files in %v", refreshed, time.Since(startTime).Round(time.Millisecond))
	return nil
}
