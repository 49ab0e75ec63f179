package library

import (
	"errors"
	"fmt"
	"io"

	"github.com/franz/musicdex/internal/fstree"
	"github.com/franz/musicdex/internal/meta"
	"github.com/franz/musicdex/internal/report"
	"github.com/franz/musicdex/internal/store"
	"github.com/franz/musicdex/internal/util"
)

// CoverResolver decides which file serves as an album's cover. Only the
// winning file id is persisted; the kind of cover is derived from the
// node's MIME type when the cover is read.
//
// Precedence: embedded art always wins over a folder-level image file, and a
// folder image only ever fills an empty cover slot. Metadata travelling with
// the audio file is trusted over incidental folder contents.
type CoverResolver struct {
	store     *store.Store
	tree      fstree.Tree
	extractor meta.Extractor
	events    *report.EventLogger
}

// NewCoverResolver creates a CoverResolver
func NewCoverResolver(s *store.Store, tree fstree.Tree, extractor meta.Extractor, events *report.EventLogger) *CoverResolver {
	return &CoverResolver{store: s, tree: tree, extractor: extractor, events: events}
}

// OnFileIndexed reacts to an audio file passing through the indexer. A file
// carrying embedded art unconditionally becomes the album cover. A file that
// lost its embedded art and was the cover clears it and triggers a fallback
// search.
func (c *CoverResolver) OnFileIndexed(userID string, fileID int64, albumID int64, hasEmbeddedArt bool) error {
	if hasEmbeddedArt {
		if err := c.store.SetAlbumCover(userID, albumID, &fileID); err != nil {
			return err
		}
		c.events.LogCover(userID, albumID, fileID, "embedded")
		return nil
	}

	album, err := c.store.FindAlbum(userID, albumID)
	if err != nil {
		return err
	}
	if album.CoverFileID == nil || *album.CoverFileID != fileID {
		return nil
	}

	// the tag was removed in a re-scan
	if err := c.store.SetAlbumCover(userID, albumID, nil); err != nil {
		return err
	}
	c.events.LogCover(userID, albumID, fileID, "cleared")
	return c.FallbackSearch(userID, albumID)
}

// OnImageFileIndexed assigns a folder-level image as the lowest-priority
// fallback to every cover-less album with tracks in that folder. Returns
// the number of albums that gained a cover.
func (c *CoverResolver) OnImageFileIndexed(userID string, fileID int64, parentFolderID int64) (int, error) {
	albums, err := c.store.FindAlbumsWithoutCoverInFolder(userID, parentFolderID)
	if err != nil {
		return 0, err
	}

	for _, album := range albums {
		if err := c.store.SetAlbumCover(userID, album.ID, &fileID); err != nil {
			return 0, err
		}
		c.events.LogCover(userID, album.ID, fileID, "folder-image")
	}
	return len(albums), nil
}

// FallbackSearch assigns the first album track whose file still carries
// embedded art as cover; the album stays coverless when none qualifies
func (c *CoverResolver) FallbackSearch(userID string, albumID int64) error {
	tracks, err := c.store.FindTracksByAlbum(userID, albumID)
	if err != nil {
		return err
	}

	for _, track := range tracks {
		raw, err := c.extractTags(track.FileID)
		if err != nil {
			util.DebugLog("cover fallback: cannot read file %d: %v", track.FileID, err)
			continue
		}
		if raw.Picture == nil {
			continue
		}

		fileID := track.FileID
		if err := c.store.SetAlbumCover(userID, albumID, &fileID); err != nil {
			return err
		}
		c.events.LogCover(userID, albumID, fileID, "fallback")
		return nil
	}
	return nil
}

// OnFileDeleted clears the cover of every album the removed file was serving
// and searches a replacement. Returns whether the file was a cover at all.
func (c *CoverResolver) OnFileDeleted(userID string, fileID int64) (bool, error) {
	albums, err := c.store.FindAlbumsByCoverFile(userID, fileID)
	if err != nil {
		return false, err
	}

	for _, album := range albums {
		if err := c.store.SetAlbumCover(userID, album.ID, nil); err != nil {
			return true, err
		}
		c.events.LogCover(userID, album.ID, fileID, "cleared")
		if err := c.FallbackSearch(userID, album.ID); err != nil {
			// best effort: a failed fallback search never blocks a deletion
			util.WarnLog("cover fallback failed for album %d: %v", album.ID, err)
		}
	}
	return len(albums) > 0, nil
}

// Cover returns the cover image of an album: the embedded picture when the
// cover file is an audio file, the file content when it is an image file,
// nil when the album has no resolvable cover.
func (c *CoverResolver) Cover(userID string, albumID int64) (*meta.Picture, error) {
	album, err := c.store.FindAlbum(userID, albumID)
	if err != nil {
		return nil, err
	}
	if album.CoverFileID == nil {
		return nil, nil
	}

	nodes, err := c.tree.GetByID(*album.CoverFileID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		util.WarnLog("cover file %d of album %d is gone", *album.CoverFileID, albumID)
		return nil, nil
	}
	node := nodes[0]

	if fstree.IsAudio(node.MimeType) {
		raw, err := c.extractTags(node.ID)
		if err != nil {
			return nil, err
		}
		return raw.Picture, nil
	}

	r, err := c.tree.Open(node.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to open cover file: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read cover file: %w", err)
	}
	return &meta.Picture{Mime: node.MimeType, Data: data}, nil
}

func (c *CoverResolver) extractTags(fileID int64) (*meta.RawTags, error) {
	r, err := c.tree.Open(fileID)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	raw, err := c.extractor.Extract(r)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("extractor returned no result")
	}
	return raw, nil
}
