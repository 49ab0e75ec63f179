package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/musicdex/internal/util"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Index new audio files and clean up removed ones",
	Long: `Scan the music root for audio files and reconcile the library database.

New files are indexed in batches so an interrupted scan can simply be
re-run and resumes where it left off. Files that disappeared from disk
are removed from the library afterwards, together with albums and
artists left without tracks.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Int("batch", 50, "files indexed per batch (0 = all at once)")
	scanCmd.Flags().Bool("no-cleanup", false, "skip removal of vanished files")
	viper.BindPFlag("batch", scanCmd.Flags().Lookup("batch"))
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	env, err := openEnv(true)
	if err != nil {
		return err
	}
	defer env.Close()

	if env.events.Path() != "" {
		util.InfoLog("Event log: %s", env.events.Path())
	}

	batch := viper.GetInt("batch")
	noCleanup, _ := cmd.Flags().GetBool("no-cleanup")
	isTTY := util.IsTerminal(os.Stdout.Fd())

	util.InfoLog("Scanning %s for user %s", viper.GetString("root"), env.userID)
	startTime := time.Now()

	var bar *progressbar.ProgressBar
	totalScanned := 0

	for {
		counts, err := env.orch.Reconcile(ctx, env.userID, batch)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		totalScanned += counts.Scanned

		if bar == nil && isTTY && !util.IsQuiet() && counts.Total > 0 {
			bar = progressbar.NewOptions(counts.Total,
				progressbar.OptionSetDescription("Indexing"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("files"),
				progressbar.OptionThrottle(200*time.Millisecond),
				progressbar.OptionClearOnFinish(),
			)
			bar.Set(counts.Processed - counts.Scanned)
		}
		if bar != nil {
			bar.Set(counts.Processed)
		}

		if counts.Processed >= counts.Total || batch <= 0 {
			break
		}
		if counts.Scanned == 0 {
			// remaining candidates keep failing, a tighter loop won't help
			util.WarnLog("%d files could not be indexed, see the event log", counts.Total-counts.Processed)
			break
		}
	}
	if bar != nil {
		bar.Finish()
	}

	util.SuccessLog("Indexed %d new files in %v", totalScanned, time.Since(startTime).Round(time.Millisecond))

	if noCleanup {
		return nil
	}

	removed, err := env.orch.CleanUp(ctx, env.userID)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	if removed > 0 {
		util.InfoLog("Removed %d vanished files from the library", removed)
	}
	return nil
}
