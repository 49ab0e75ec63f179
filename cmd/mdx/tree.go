package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/franz/musicdex/internal/folders"
	"github.com/franz/musicdex/internal/util"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the indexed folder tree",
	Long: `Reconstruct the folder tree of the indexed library and print it.

Folders are rebuilt from the track index, so only folders holding
indexed tracks and their ancestors appear. Mounts and shares under the
music root are grafted onto the root.`,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	env, err := openEnv(true)
	if err != nil {
		return err
	}
	defer env.Close()

	root, err := env.tree.Root()
	if err != nil {
		return err
	}

	builder := folders.NewBuilder(env.store, env.tree)
	result, err := builder.BuildTree(env.userID, root.ID)
	if err != nil {
		return fmt.Errorf("failed to build folder tree: %w", err)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })

	for _, f := range result {
		path := f.Path
		if path == "" {
			path = "/"
		}
		fmt.Printf("%s (%d tracks)\n", path, len(f.TrackIDs))
	}
	util.InfoLog("%d folders", len(result))
	return nil
}
