package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/franz/musicdex/internal/fstree"
	"github.com/franz/musicdex/internal/library"
	"github.com/franz/musicdex/internal/meta"
	"github.com/franz/musicdex/internal/report"
	"github.com/franz/musicdex/internal/scan"
	"github.com/franz/musicdex/internal/store"
	"github.com/franz/musicdex/internal/util"
)

// appEnv bundles the wired-up components every command needs
type appEnv struct {
	userID string
	store  *store.Store
	tree   *fstree.Local
	events *report.EventLogger
	covers *library.CoverResolver
	cache  *library.Cache
	orch   *scan.Orchestrator
}

func (e *appEnv) Close() {
	if e.events != nil {
		e.events.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
}

// openEnv reads the effective configuration and opens the database, and the
// file tree when withTree is set. Commands operating on the database alone
// pass false so they work with the music folder unmounted.
func openEnv(withTree bool) (*appEnv, error) {
	verbose := viper.GetBool("verbose")
	quiet := viper.GetBool("quiet")
	util.SetVerbose(verbose)
	util.SetQuiet(quiet)

	dbPath := viper.GetString("db")
	util.DebugLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	env := &appEnv{
		userID: viper.GetString("user"),
		store:  db,
	}

	logLevel := report.LevelInfo
	if quiet {
		logLevel = report.LevelWarning
	} else if verbose {
		logLevel = report.LevelDebug
	}
	events, err := report.NewEventLogger("artifacts", logLevel)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		events = report.NullLogger()
	}
	env.events = events

	if !withTree {
		env.cache = library.NewCache(db)
		return env, nil
	}

	rootPath := viper.GetString("root")
	if rootPath == "" {
		env.Close()
		return nil, fmt.Errorf("music root is required (use --root/-r or set in config)")
	}
	if _, err := os.Stat(rootPath); os.IsNotExist(err) {
		env.Close()
		return nil, fmt.Errorf("music root does not exist: %s", rootPath)
	}

	tree, err := fstree.OpenLocal(rootPath)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to read music root: %w", err)
	}
	env.tree = tree

	excludes, err := scan.NewMatcher(viper.GetStringSlice("exclude"))
	if err != nil {
		env.Close()
		return nil, err
	}

	extractor := meta.NewTagReader()
	env.cache = library.NewCache(db)
	env.covers = library.NewCoverResolver(db, tree, extractor, events)
	env.orch = scan.NewOrchestrator(db, tree, extractor, env.covers, env.cache, events, excludes)
	return env, nil
}
