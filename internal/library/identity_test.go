package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franz/musicdex/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strp(s string) *string { return &s }

func TestArtistHashIsCaseInsensitive(t *testing.T) {
	a := ArtistHash(strp("Daft Punk"))
	b := ArtistHash(strp("DAFT PUNK"))
	c := ArtistHash(strp("daft punk"))
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	other := ArtistHash(strp("Daft Punks"))
	assert.NotEqual(t, a, other)
}

func TestArtistHashNilName(t *testing.T) {
	assert.Equal(t, "", ArtistHash(nil))
}

func TestAlbumHashIncludesAlbumArtist(t *testing.T) {
	name := strp("Greatest Hits")
	assert.NotEqual(t, AlbumHash(name, 1), AlbumHash(name, 2))
	assert.Equal(t, AlbumHash(name, 1), AlbumHash(strp("greatest hits"), 1))
}

func TestUpsertArtistIsIdempotent(t *testing.T) {
	db := newTestStore(t)
	r := NewResolver(db)

	first, err := r.UpsertArtist("alice", strp("Queen"))
	require.NoError(t, err)
	second, err := r.UpsertArtist("alice", strp("QUEEN"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// the first sighting's spelling is kept
	require.NotNil(t, second.Name)
	assert.Equal(t, "Queen", *second.Name)
}

func TestUpsertArtistUnknown(t *testing.T) {
	db := newTestStore(t)
	r := NewResolver(db)

	a, err := r.UpsertArtist("alice", nil)
	require.NoError(t, err)
	assert.Nil(t, a.Name)

	b, err := r.UpsertArtist("alice", nil)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID, "all unknown artists collapse into one row")
}

func TestUpsertArtistScopedPerUser(t *testing.T) {
	db := newTestStore(t)
	r := NewResolver(db)

	a, err := r.UpsertArtist("alice", strp("Queen"))
	require.NoError(t, err)
	b, err := r.UpsertArtist("bob", strp("Queen"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestUpsertGenreEmptyName(t *testing.T) {
	db := newTestStore(t)
	r := NewResolver(db)

	g, err := r.UpsertGenre("alice", "")
	require.NoError(t, err)
	assert.Nil(t, g)

	g, err = r.UpsertGenre("alice", "Rock")
	require.NoError(t, err)
	require.NotNil(t, g)
	g2, err := r.UpsertGenre("alice", "ROCK")
	require.NoError(t, err)
	assert.Equal(t, g.ID, g2.ID)
}

func TestUpsertAlbumDiskCountOnlyGrows(t *testing.T) {
	db := newTestStore(t)
	r := NewResolver(db)

	artist, err := r.UpsertArtist("alice", strp("X"))
	require.NoError(t, err)

	album, err := r.UpsertAlbum("alice", strp("Box Set"), 3, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, album.DiskCount)

	album, err = r.UpsertAlbum("alice", strp("Box Set"), 1, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, album.DiskCount, "a lower disc number must not shrink the count")

	album, err = r.UpsertAlbum("alice", strp("Box Set"), 5, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, album.DiskCount)
}

func TestUpsertTrackKeyedByFile(t *testing.T) {
	db := newTestStore(t)
	r := NewResolver(db)

	artist, err := r.UpsertArtist("alice", strp("X"))
	require.NoError(t, err)
	album, err := r.UpsertAlbum("alice", strp("A"), 1, artist.ID)
	require.NoError(t, err)

	disk := 1
	first, err := r.UpsertTrack(&store.Track{
		UserID: "alice", FileID: 42, FolderID: 1, Title: "Old Title",
		Disk: &disk, ArtistID: artist.ID, AlbumID: album.ID, Mimetype: "audio/mpeg",
	})
	require.NoError(t, err)

	second, err := r.UpsertTrack(&store.Track{
		UserID: "alice", FileID: 42, FolderID: 1, Title: "New Title",
		Disk: &disk, ArtistID: artist.ID, AlbumID: album.ID, Mimetype: "audio/mpeg",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-scanning a file updates the same row")
	assert.Equal(t, "New Title", second.Title)
}
