package main

import (
	"github.com/spf13/cobra"

	"github.com/franz/musicdex/internal/util"
)

var resetDBCmd = &cobra.Command{
	Use:   "reset-db",
	Short: "Wipe all indexed data for the user",
	Long: `Remove every track, album, artist, genre, playlist and cache entry of
the user. The files on disk are not touched; the next scan rebuilds the
library from scratch.`,
	RunE: runResetDB,
}

var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Drop the user's cached derived data",
	Long: `Remove cached derived data (the collection document, cover hashes) for
the user. It is rebuilt on the next read, so this is always safe.`,
	RunE: runResetCache,
}

func init() {
	rootCmd.AddCommand(resetDBCmd, resetCacheCmd)
}

func runResetDB(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.store.ResetUser(env.userID); err != nil {
		return err
	}
	util.SuccessLog("Wiped library data for user %s", env.userID)
	return nil
}

func runResetCache(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.cache.InvalidateUser(env.userID); err != nil {
		return err
	}
	util.SuccessLog("Dropped cached data for user %s", env.userID)
	return nil
}
