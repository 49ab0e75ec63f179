package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/franz/musicdex/internal/fstree"
	"github.com/franz/musicdex/internal/library"
	"github.com/franz/musicdex/internal/meta"
	"github.com/franz/musicdex/internal/report"
	"github.com/franz/musicdex/internal/store"
	"github.com/franz/musicdex/internal/util"
)

// ErrScanInProgress is returned when a reconciliation for the same user is
// already running in this process
var ErrScanInProgress = errors.New("scan already in progress for this user")

// Counts reports reconciliation progress. Processed >= Total means the
// backlog is empty; Scanned is what this invocation added.
type Counts struct {
	Processed int
	Scanned   int
	Total     int
}

// candidate is an audio file queued for indexing, with its walk context
type candidate struct {
	node      *fstree.Node
	relPath   string
	parent    *fstree.Node
	parentTop bool // parent folder is the music root itself
}

// Orchestrator drives the reconciliation between the file tree and the
// store. All mutations of library rows go through here or through the
// resolvers it owns.
type Orchestrator struct {
	store     *store.Store
	tree      fstree.Tree
	extractor meta.Extractor
	resolver  *library.Resolver
	covers    *library.CoverResolver
	cache     *library.Cache
	dirty     *library.DirtyTracker
	events    *report.EventLogger
	excludes  *Matcher

	mu     sync.Mutex
	active map[string]bool
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(
	s *store.Store,
	tree fstree.Tree,
	extractor meta.Extractor,
	covers *library.CoverResolver,
	cache *library.Cache,
	events *report.EventLogger,
	excludes *Matcher,
) *Orchestrator {
	if excludes == nil {
		excludes, _ = NewMatcher(nil)
	}
	return &Orchestrator{
		store:     s,
		tree:      tree,
		extractor: extractor,
		resolver:  library.NewResolver(s),
		covers:    covers,
		cache:     cache,
		dirty:     library.NewDirtyTracker(s),
		events:    events,
		excludes:  excludes,
		active:    make(map[string]bool),
	}
}

// Reconcile walks the tree, indexes up to budget not-yet-indexed audio files
// and assigns folder images to coverless albums. budget <= 0 means
// unbounded. Per-file failures are logged and skipped; an unreachable root
// fails the whole call.
func (o *Orchestrator) Reconcile(ctx context.Context, userID string, budget int) (*Counts, error) {
	if err := o.acquire(userID); err != nil {
		return nil, err
	}
	defer o.release(userID)

	root, err := o.tree.Root()
	if err != nil {
		return nil, fmt.Errorf("music root is unreachable: %w", err)
	}

	indexed, err := o.store.TrackFileIDs(userID)
	if err != nil {
		return nil, err
	}

	var audio []candidate
	var images []*fstree.Node
	if err := o.walk(root, "", true, &audio, &images); err != nil {
		return nil, err
	}

	counts := &Counts{Total: len(audio)}
	var queue []candidate
	for _, c := range audio {
		if indexed[c.node.ID] {
			counts.Processed++
			continue
		}
		queue = append(queue, c)
	}
	if budget > 0 && len(queue) > budget {
		queue = queue[:budget]
	}

	for _, c := range queue {
		if err := ctx.Err(); err != nil {
			if counts.Scanned > 0 {
				if cerr := o.cache.InvalidateUser(userID); cerr != nil {
					util.WarnLog("cache invalidation after cancel failed: %v", cerr)
				}
			}
			return counts, err
		}
		if err := o.indexFile(userID, c); err != nil {
			util.WarnLog("skipping %s: %v", c.relPath, err)
			o.events.LogSkip(userID, c.node.ID, c.relPath, err.Error())
			continue
		}
		o.events.LogIndex(userID, c.node.ID, c.relPath)
		counts.Scanned++
		counts.Processed++
	}

	var coversAssigned int
	for _, img := range images {
		n, err := o.covers.OnImageFileIndexed(userID, img.ID, img.ParentID)
		if err != nil {
			util.WarnLog("cover assignment for image %d failed: %v", img.ID, err)
			continue
		}
		coversAssigned += n
	}

	// any persisted mutation makes the cached aggregate stale, including a
	// run that indexed nothing but assigned a folder image as cover
	if counts.Scanned > 0 || coversAssigned > 0 {
		if err := o.cache.InvalidateUser(userID); err != nil {
			return counts, err
		}
	}
	return counts, nil
}

func (o *Orchestrator) walk(folder *fstree.Node, rel string, isRoot bool, audio *[]candidate, images *[]*fstree.Node) error {
	children, err := o.tree.ListChildren(folder.ID)
	if err != nil {
		return err
	}

	for _, child := range children {
		childRel := child.Name
		if rel != "" {
			childRel = rel + "/" + child.Name
		}
		if o.excludes.Excluded(childRel) {
			util.DebugLog("excluded: %s", childRel)
			continue
		}

		switch {
		case child.IsFolder:
			if err := o.walk(child, childRel, false, audio, images); err != nil {
				return err
			}
		case fstree.IsAudio(child.MimeType):
			*audio = append(*audio, candidate{
				node:      child,
				relPath:   childRel,
				parent:    folder,
				parentTop: isRoot,
			})
		case fstree.IsImage(child.MimeType):
			*images = append(*images, child)
		}
	}
	return nil
}

func (o *Orchestrator) indexFile(userID string, c candidate) error {
	r, err := o.tree.Open(c.node.ID)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	raw, err := o.extractor.Extract(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("tag extraction failed: %w", err)
	}

	tm := Normalize(raw, c.node.Name, c.parent.Name, c.parentTop)

	var genreID *int64
	if genre, err := o.resolver.UpsertGenre(userID, tm.Genre); err != nil {
		return err
	} else if genre != nil {
		genreID = &genre.ID
	}

	artist, err := o.resolver.UpsertArtist(userID, tm.Artist)
	if err != nil {
		return err
	}
	albumArtist, err := o.resolver.UpsertArtist(userID, tm.AlbumArtist)
	if err != nil {
		return err
	}
	album, err := o.resolver.UpsertAlbum(userID, tm.Album, tm.Disk, albumArtist.ID)
	if err != nil {
		return err
	}

	disk := tm.Disk
	_, err = o.resolver.UpsertTrack(&store.Track{
		UserID:    userID,
		FileID:    c.node.ID,
		FolderID:  c.parent.ID,
		Title:     tm.Title,
		Number:    tm.Number,
		Disk:      &disk,
		Year:      tm.Year,
		GenreID:   genreID,
		ArtistID:  artist.ID,
		AlbumID:   album.ID,
		Mimetype:  c.node.MimeType,
		Length:    tm.Length,
		Bitrate:   tm.Bitrate,
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	return o.covers.OnFileIndexed(userID, c.node.ID, album.ID, tm.HasPicture)
}

// Rescan re-extracts tags for tracks whose file changed on disk since they
// were indexed or that carry an explicit dirty mark. Unchanged files are not
// touched. Returns the number of tracks refreshed.
func (o *Orchestrator) Rescan(ctx context.Context, userID string) (int, error) {
	if err := o.acquire(userID); err != nil {
		return 0, err
	}
	defer o.release(userID)

	root, err := o.tree.Root()
	if err != nil {
		return 0, fmt.Errorf("music root is unreachable: %w", err)
	}

	dirty, err := o.dirty.FindDirty(userID, o.tree)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, track := range dirty {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		nodes, err := o.tree.GetByID(track.FileID)
		if err != nil {
			return refreshed, err
		}
		if len(nodes) == 0 {
			continue
		}
		node := nodes[0]

		parents, err := o.tree.GetByID(node.ParentID)
		if err != nil {
			return refreshed, err
		}
		if len(parents) == 0 {
			util.WarnLog("parent folder of file %d is gone, skipping", node.ID)
			continue
		}

		c := candidate{
			node:      node,
			relPath:   node.Name,
			parent:    parents[0],
			parentTop: node.ParentID == root.ID,
		}
		if err := o.indexFile(userID, c); err != nil {
			util.WarnLog("rescan of %s failed: %v", node.Name, err)
			o.events.LogSkip(userID, node.ID, node.Name, err.Error())
			continue
		}
		o.events.LogIndex(userID, node.ID, node.Name)
		refreshed++
	}

	if refreshed > 0 {
		if err := o.cache.InvalidateUser(userID); err != nil {
			return refreshed, err
		}
	}
	return refreshed, nil
}

// CleanUp removes tracks whose file is no longer reachable, cascading over
// orphaned albums, artists and playlist references. Returns the number of
// tracks removed.
func (o *Orchestrator) CleanUp(ctx context.Context, userID string) (int, error) {
	tracks, err := o.store.FindAllTracks(userID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, track := range tracks {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		nodes, err := o.tree.GetByID(track.FileID)
		if err != nil {
			return removed, err
		}
		if len(nodes) > 0 {
			continue
		}
		if err := o.Delete(userID, track.FileID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Delete removes the track backed by fileID and everything that only existed
// because of it. When fileID never was a track it may still have been a
// standalone cover image; that path is tried before giving up with
// store.ErrNotFound. Cover fallback failures are logged, never fatal.
func (o *Orchestrator) Delete(userID string, fileID int64) error {
	track, err := o.store.FindTrackByFile(userID, fileID)
	if errors.Is(err, store.ErrNotFound) {
		wasCover, cerr := o.covers.OnFileDeleted(userID, fileID)
		if cerr != nil {
			return cerr
		}
		if !wasCover {
			return store.ErrNotFound
		}
		o.events.LogDelete(userID, fileID, "cover-image")
		return o.cache.InvalidateUser(userID)
	}
	if err != nil {
		return err
	}

	album, err := o.store.FindAlbum(userID, track.AlbumID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if err := o.store.DeleteTracks(userID, []int64{track.ID}); err != nil {
		return err
	}

	if album != nil {
		n, err := o.store.CountTracksByAlbum(userID, album.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			if err := o.store.DeleteAlbums(userID, []int64{album.ID}); err != nil {
				return err
			}
			o.events.LogDelete(userID, fileID, "album")
		}
	}

	artistIDs := map[int64]bool{track.ArtistID: true}
	if album != nil {
		artistIDs[album.AlbumArtistID] = true
	}
	for artistID := range artistIDs {
		orphaned, err := o.artistOrphaned(userID, artistID)
		if err != nil {
			return err
		}
		if orphaned {
			if err := o.store.DeleteArtists(userID, []int64{artistID}); err != nil {
				return err
			}
		}
	}

	// playlists store raw id lists, nothing cascades for free
	if err := o.store.RemoveTrackFromPlaylists(userID, track.ID); err != nil {
		return err
	}

	if _, err := o.covers.OnFileDeleted(userID, fileID); err != nil {
		util.WarnLog("cover cleanup after deleting file %d failed: %v", fileID, err)
	}

	o.events.LogDelete(userID, fileID, "track")
	return o.cache.InvalidateUser(userID)
}

func (o *Orchestrator) artistOrphaned(userID string, artistID int64) (bool, error) {
	n, err := o.store.CountTracksByArtist(userID, artistID)
	if err != nil || n > 0 {
		return false, err
	}
	n, err = o.store.CountAlbumsByAlbumArtist(userID, artistID)
	if err != nil || n > 0 {
		return false, err
	}
	return true, nil
}

func (o *Orchestrator) acquire(userID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active[userID] {
		return ErrScanInProgress
	}
	o.active[userID] = true
	return nil
}

func (o *Orchestrator) release(userID string) {
	o.mu.Lock()
	delete(o.active, userID)
	o.mu.Unlock()
}
