// Package library holds the entity-level logic between the scan orchestrator
// and the store: identity-hash upserts, cover resolution, dirty tracking and
// the cached collection aggregate.
package library

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/franz/musicdex/internal/store"
)

// UnknownArtistName is the display fallback for a nil artist name
const UnknownArtistName = "Unknown Artist"

// ArtistHash computes the identity hash of an artist name. Comparison is
// case-folded but not accent-folded: "The Beatles" and "the beatles"
// collide, visually similar Unicode variants do not. Downstream grouping
// depends on exact-name matching, so this is intentional.
func ArtistHash(name *string) string {
	n := ""
	if name != nil {
		n = *name
	}
	sum := md5.Sum([]byte(strings.ToLower(n)))
	return hex.EncodeToString(sum[:])
}

// AlbumHash computes the identity hash of an album. The album artist is part
// of the identity: same-named albums by different artists are distinct.
func AlbumHash(name *string, albumArtistID int64) string {
	n := ""
	if name != nil {
		n = *name
	}
	sum := md5.Sum(fmt.Appendf(nil, "%s|%d", strings.ToLower(n), albumArtistID))
	return hex.EncodeToString(sum[:])
}

// Resolver performs hash-keyed idempotent upserts of artists, genres, albums
// and tracks. The unique index over (identity_hash, user_id) makes the
// upsert safe without a prior existence check; a lost insert race is
// recovered by the store re-reading the winning row.
type Resolver struct {
	store *store.Store
}

// NewResolver creates a Resolver
func NewResolver(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// UpsertArtist returns the artist for a (possibly nil) name, creating it on
// first sighting
func (r *Resolver) UpsertArtist(userID string, name *string) (*store.Artist, error) {
	return r.store.UpsertArtist(userID, name, ArtistHash(name))
}

// UpsertGenre returns the genre for a name, or nil for an empty name
func (r *Resolver) UpsertGenre(userID string, name string) (*store.Genre, error) {
	if name == "" {
		return nil, nil
	}
	return r.store.UpsertGenre(userID, name)
}

// UpsertAlbum returns the album for a (name, albumArtist) identity, creating
// it on first sighting and raising its disk count when a higher disc number
// is seen
func (r *Resolver) UpsertAlbum(userID string, name *string, disk int, albumArtistID int64) (*store.Album, error) {
	album, err := r.store.UpsertAlbum(userID, name, albumArtistID, AlbumHash(name, albumArtistID))
	if err != nil {
		return nil, err
	}

	if disk > album.DiskCount {
		if err := r.store.BumpAlbumDiskCount(userID, album.ID, disk); err != nil {
			return nil, err
		}
		album.DiskCount = disk
	}

	return album, nil
}

// UpsertTrack inserts or updates the track for a file id. The file is the
// ground truth for track existence, so the upsert is keyed by file id, not
// by any content hash: tags may change between scans without changing the
// track's identity.
func (r *Resolver) UpsertTrack(t *store.Track) (*store.Track, error) {
	return r.store.UpsertTrack(t)
}
