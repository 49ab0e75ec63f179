package store

// Artist is a performing or album artist. Name is nil when the tags carried
// no artist; display layers render that as "Unknown Artist".
type Artist struct {
	ID           int64
	UserID       string
	Name         *string
	IdentityHash string
}

// Genre is a named genre scoped to one user
type Genre struct {
	ID        int64
	UserID    string
	Name      string
	LowerName string
}

// Album groups tracks under an album artist. Years and genres are derived
// from the contained tracks at read time, not stored.
type Album struct {
	ID            int64
	UserID        string
	Name          *string
	AlbumArtistID int64
	IdentityHash  string
	CoverFileID   *int64
	DiskCount     int
}

// Track is one indexed audio file. FileID is the stable identifier assigned
// by the file tree; a track exists iff its file exists.
type Track struct {
	ID        int64
	UserID    string
	FileID    int64
	FolderID  int64
	Title     string
	Number    *int
	Disk      *int
	Year      *int
	GenreID   *int64
	ArtistID  int64
	AlbumID   int64
	Mimetype  string
	Length    *int
	Bitrate   *int
	Dirty     bool
	UpdatedAt int64
}

// Playlist stores an ordered list of track ids, not foreign keys
type Playlist struct {
	ID       int64
	UserID   string
	Name     string
	TrackIDs []int64
}
