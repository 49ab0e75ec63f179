package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/musicdex/internal/library"
	"github.com/franz/musicdex/internal/util"
)

var dirtyCmd = &cobra.Command{
	Use:   "dirty",
	Short: "List files whose indexed metadata is stale",
	Long: `List indexed files that changed on disk since they were indexed, or
that carry an explicit dirty mark.

Use this to see what a re-scan would pick up without running one.`,
	RunE: runDirty,
}

func init() {
	dirtyCmd.Flags().Bool("mark", false, "set the dirty mark on the given file ids instead of listing")
	rootCmd.AddCommand(dirtyCmd)
}

func runDirty(cmd *cobra.Command, args []string) error {
	env, err := openEnv(true)
	if err != nil {
		return err
	}
	defer env.Close()

	tracker := library.NewDirtyTracker(env.store)

	if mark, _ := cmd.Flags().GetBool("mark"); mark {
		for _, arg := range args {
			var fileID int64
			if _, err := fmt.Sscanf(arg, "%d", &fileID); err != nil {
				return fmt.Errorf("invalid file id %q", arg)
			}
			if err := tracker.MarkDirty(env.userID, fileID); err != nil {
				return err
			}
		}
		util.SuccessLog("Marked %d files dirty", len(args))
		return nil
	}

	dirty, err := tracker.FindDirty(env.userID, env.tree)
	if err != nil {
		return err
	}
	for _, track := range dirty {
		fmt.Printf("%d  %s\n", track.FileID, track.Title)
	}
	util.InfoLog("%d stale files", len(dirty))
	return nil
}
