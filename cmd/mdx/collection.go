package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/musicdex/internal/library"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Dump the library as one JSON document",
	Long: `Print the whole library aggregate (artists, albums, tracks, genres) as
JSON. The document is cached in the database and rebuilt only after the
library changed.`,
	RunE: runCollection,
}

func init() {
	rootCmd.AddCommand(collectionCmd)
}

func runCollection(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	collector := library.NewCollector(env.store, env.cache)
	data, err := collector.CollectionJSON(env.userID)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
