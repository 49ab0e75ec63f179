package folders

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franz/musicdex/internal/fstree"
	"github.com/franz/musicdex/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func addTrack(t *testing.T, db *store.Store, userID string, fileID, folderID int64) *store.Track {
	t.Helper()
	disk := 1
	track, err := db.UpsertTrack(&store.Track{
		UserID: userID, FileID: fileID, FolderID: folderID, Title: "t",
		Disk: &disk, ArtistID: 1, AlbumID: 1, Mimetype: "audio/mpeg",
	})
	require.NoError(t, err)
	return track
}

func folderByID(folders []*Folder, id int64) *Folder {
	for _, f := range folders {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func TestBuildTreeFillsAncestorGaps(t *testing.T) {
	db := newTestStore(t)
	tree := fstree.NewMemTree("local:1")

	// tracks only in the deep leaf; the intermediate folders have none
	artists := tree.AddFolder(tree.RootID(), "Artists", "")
	queen := tree.AddFolder(artists, "Queen", "")
	opera := tree.AddFolder(queen, "A Night at the Opera", "")
	f1 := tree.AddFile(opera, "01.mp3", nil)
	track := addTrack(t, db, "alice", f1, opera)

	result, err := NewBuilder(db, tree).BuildTree("alice", tree.RootID())
	require.NoError(t, err)
	require.Len(t, result, 4, "leaf, both ancestors and the root")

	root := folderByID(result, tree.RootID())
	require.NotNil(t, root)
	assert.EqualValues(t, 0, root.ParentID)
	assert.Equal(t, "", root.Path)

	leaf := folderByID(result, opera)
	require.NotNil(t, leaf)
	assert.Equal(t, []int64{track.ID}, leaf.TrackIDs)
	assert.Equal(t, "/Artists/Queen/A Night at the Opera", leaf.Path)

	mid := folderByID(result, queen)
	require.NotNil(t, mid)
	assert.Empty(t, mid.TrackIDs)
	assert.EqualValues(t, artists, mid.ParentID)
}

func TestBuildTreeRootWithDirectTracks(t *testing.T) {
	db := newTestStore(t)
	tree := fstree.NewMemTree("local:1")
	f1 := tree.AddFile(tree.RootID(), "loose.mp3", nil)
	track := addTrack(t, db, "alice", f1, tree.RootID())

	result, err := NewBuilder(db, tree).BuildTree("alice", tree.RootID())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, []int64{track.ID}, result[0].TrackIDs)
	assert.EqualValues(t, 0, result[0].ParentID)
}

func TestBuildTreeGraftsMountedFolder(t *testing.T) {
	db := newTestStore(t)
	tree := fstree.NewMemTree("local:1")

	// a shared folder listed under the root while its stored parent chain
	// belongs to the foreign storage
	foreignHome := tree.AddFolder(tree.RootID(), "ForeignHome", "remote:2")
	shared := tree.AddFolder(foreignHome, "Shared Music", "remote:2")
	tree.Mount(shared, tree.RootID())

	f1 := tree.AddFile(shared, "song.mp3", nil)
	track := addTrack(t, db, "alice", f1, shared)

	result, err := NewBuilder(db, tree).BuildTree("alice", tree.RootID())
	require.NoError(t, err)

	sharedFolder := folderByID(result, shared)
	require.NotNil(t, sharedFolder)
	assert.EqualValues(t, tree.RootID(), sharedFolder.ParentID,
		"mounted folder must be grafted onto the root")
	assert.Equal(t, []int64{track.ID}, sharedFolder.TrackIDs)
	assert.Equal(t, "/Shared Music", sharedFolder.Path)

	assert.Nil(t, folderByID(result, foreignHome), "the foreign parent stays invisible")
}

func TestBuildTreeGraftsMountWithDeepTracksOnly(t *testing.T) {
	db := newTestStore(t)
	tree := fstree.NewMemTree("local:1")

	// the mounted folder itself holds no tracks; they sit in a subfolder,
	// so the mount only enters the tree via ancestor filling
	foreignHome := tree.AddFolder(tree.RootID(), "ForeignHome", "remote:2")
	shared := tree.AddFolder(foreignHome, "Shared Music", "remote:2")
	tree.Mount(shared, tree.RootID())
	disc := tree.AddFolder(shared, "Disc 1", "remote:2")

	f1 := tree.AddFile(disc, "song.mp3", nil)
	track := addTrack(t, db, "alice", f1, disc)

	result, err := NewBuilder(db, tree).BuildTree("alice", tree.RootID())
	require.NoError(t, err)

	sharedFolder := folderByID(result, shared)
	require.NotNil(t, sharedFolder)
	assert.EqualValues(t, tree.RootID(), sharedFolder.ParentID,
		"the trackless mount must still hang off the root")
	assert.Empty(t, sharedFolder.TrackIDs)

	leaf := folderByID(result, disc)
	require.NotNil(t, leaf)
	assert.EqualValues(t, shared, leaf.ParentID)
	assert.Equal(t, []int64{track.ID}, leaf.TrackIDs)
	assert.Equal(t, "/Shared Music/Disc 1", leaf.Path)

	assert.Nil(t, folderByID(result, foreignHome),
		"the foreign ancestor never leaks into the result")
}

func TestBuildTreeSplicesSharedFile(t *testing.T) {
	db := newTestStore(t)
	tree := fstree.NewMemTree("local:1")

	// a single shared audio file: listed under the root, stored parent is a
	// foreign folder
	foreign := tree.AddFolder(tree.RootID(), "Foreign", "remote:2")
	tree.Mount(foreign, 0) // not listed anywhere under this root
	sharedFile := tree.AddFile(foreign, "gift.mp3", nil)
	tree.SetStorage(sharedFile, "remote:2")
	tree.Mount(sharedFile, tree.RootID())

	track := addTrack(t, db, "alice", sharedFile, foreign)

	result, err := NewBuilder(db, tree).BuildTree("alice", tree.RootID())
	require.NoError(t, err)

	root := folderByID(result, tree.RootID())
	require.NotNil(t, root)
	assert.Equal(t, []int64{track.ID}, root.TrackIDs,
		"the shared file's track belongs with the root")

	assert.Nil(t, folderByID(result, foreign),
		"emptied foreign folder is dropped from the result")
}

func TestBuildTreeMixedLocalAndMountedFolders(t *testing.T) {
	db := newTestStore(t)
	tree := fstree.NewMemTree("local:1")

	local := tree.AddFolder(tree.RootID(), "A", "")
	fx := tree.AddFile(local, "x.mp3", nil)
	trackX := addTrack(t, db, "alice", fx, local)

	foreignHome := tree.AddFolder(tree.RootID(), "ForeignHome", "remote:2")
	mounted := tree.AddFolder(foreignHome, "B", "remote:2")
	tree.Mount(mounted, tree.RootID())
	fy := tree.AddFile(mounted, "y.mp3", nil)
	trackY := addTrack(t, db, "alice", fy, mounted)

	result, err := NewBuilder(db, tree).BuildTree("alice", tree.RootID())
	require.NoError(t, err)
	require.Len(t, result, 3, "root, the local folder and the mounted folder")

	a := folderByID(result, local)
	require.NotNil(t, a)
	assert.Equal(t, []int64{trackX.ID}, a.TrackIDs)
	assert.EqualValues(t, tree.RootID(), a.ParentID)

	b := folderByID(result, mounted)
	require.NotNil(t, b)
	assert.Equal(t, []int64{trackY.ID}, b.TrackIDs)
	assert.EqualValues(t, tree.RootID(), b.ParentID,
		"the mount hangs off the root no matter what its stored parent says")
}

func TestBuildTreeMissingRoot(t *testing.T) {
	db := newTestStore(t)
	tree := fstree.NewMemTree("local:1")

	_, err := NewBuilder(db, tree).BuildTree("alice", 9999)
	assert.Error(t, err)
}
