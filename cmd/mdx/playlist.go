package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/franz/musicdex/internal/util"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage playlists",
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List playlists",
	RunE:  runPlaylistList,
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name> [trackId...]",
	Short: "Create a playlist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlaylistCreate,
}

var playlistDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistDelete,
}

func init() {
	playlistCmd.AddCommand(playlistListCmd, playlistCreateCmd, playlistDeleteCmd)
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	playlists, err := env.store.FindAllPlaylists(env.userID)
	if err != nil {
		return err
	}
	for _, p := range playlists {
		fmt.Printf("%d  %s  (%d tracks)\n", p.ID, p.Name, len(p.TrackIDs))
	}
	return nil
}

func runPlaylistCreate(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	var trackIDs []int64
	for _, arg := range args[1:] {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid track id %q", arg)
		}
		trackIDs = append(trackIDs, id)
	}

	p, err := env.store.CreatePlaylist(env.userID, args[0], trackIDs)
	if err != nil {
		return err
	}
	util.SuccessLog("Created playlist %d (%s)", p.ID, p.Name)
	return nil
}

func runPlaylistDelete(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid playlist id %q", args[0])
	}
	if err := env.store.DeletePlaylist(env.userID, id); err != nil {
		return err
	}
	util.SuccessLog("Deleted playlist %d", id)
	return nil
}
