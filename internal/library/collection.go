package library

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/franz/musicdex/internal/store"
	"github.com/franz/musicdex/internal/util"
)

// CollectionTrack is one track in the collection aggregate
type CollectionTrack struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Number  *int   `json:"number"`
	Disk    *int   `json:"disk"`
	Year    *int   `json:"year"`
	FileID  int64  `json:"fileId"`
	Mime    string `json:"mimetype"`
	Length  *int   `json:"length"`
	Bitrate *int   `json:"bitrate"`
	GenreID *int64 `json:"genreId"`
}

// CollectionAlbum is one album with its tracks. Years are derived from the
// track rows at aggregation time.
type CollectionAlbum struct {
	ID     int64             `json:"id"`
	Name   *string           `json:"name"`
	Cover  *int64            `json:"cover"`
	Years  []int             `json:"years"`
	Tracks []CollectionTrack `json:"tracks"`
}

// CollectionArtist is one album artist with its albums
type CollectionArtist struct {
	ID     int64             `json:"id"`
	Name   *string           `json:"name"`
	Albums []CollectionAlbum `json:"albums"`
}

// Collection is the whole-library aggregate handed to clients in one piece
type Collection struct {
	Artists []CollectionArtist `json:"artists"`
	Genres  []CollectionGenre  `json:"genres"`
}

// CollectionGenre is one genre with the ids of its tracks
type CollectionGenre struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	TrackIDs []int64 `json:"trackIds"`
}

// Collector builds and caches the collection aggregate
type Collector struct {
	store *store.Store
	cache *Cache
}

// NewCollector creates a Collector
func NewCollector(s *store.Store, cache *Cache) *Collector {
	return &Collector{store: s, cache: cache}
}

// CollectionJSON returns the serialized collection, from the cache when
// possible. A lost cache-write race is fine, the competing writer stored the
// same content.
func (c *Collector) CollectionJSON(userID string) ([]byte, error) {
	data, err := c.cache.Get(userID, KindCollection, 0)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	coll, err := c.Build(userID)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(coll)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Add(userID, KindCollection, 0, data); err != nil {
		if errors.Is(err, store.ErrCacheKeyExists) {
			util.DebugLog("collection cache for %s written concurrently", userID)
		} else {
			return nil, err
		}
	}
	return data, nil
}

// Build assembles the collection aggregate from the store. Tracks referencing
// a missing album or artist are skipped with a warning instead of failing the
// whole build.
func (c *Collector) Build(userID string) (*Collection, error) {
	artists, err := c.store.FindAllArtists(userID)
	if err != nil {
		return nil, err
	}
	albums, err := c.store.FindAllAlbums(userID)
	if err != nil {
		return nil, err
	}
	tracks, err := c.store.FindAllTracks(userID)
	if err != nil {
		return nil, err
	}
	genres, err := c.store.FindAllGenres(userID)
	if err != nil {
		return nil, err
	}

	artistByID := make(map[int64]*store.Artist, len(artists))
	for _, a := range artists {
		artistByID[a.ID] = a
	}
	albumByID := make(map[int64]*store.Album, len(albums))
	for _, a := range albums {
		albumByID[a.ID] = a
	}

	tracksByAlbum := make(map[int64][]CollectionTrack)
	yearsByAlbum := make(map[int64]map[int]bool)
	genreTracks := make(map[int64][]int64)
	for _, t := range tracks {
		if _, ok := albumByID[t.AlbumID]; !ok {
			util.WarnLog("track %d references missing album %d, skipping", t.ID, t.AlbumID)
			continue
		}
		if _, ok := artistByID[t.ArtistID]; !ok {
			util.WarnLog("track %d references missing artist %d, skipping", t.ID, t.ArtistID)
			continue
		}
		tracksByAlbum[t.AlbumID] = append(tracksByAlbum[t.AlbumID], CollectionTrack{
			ID:      t.ID,
			Title:   t.Title,
			Number:  t.Number,
			Disk:    t.Disk,
			Year:    t.Year,
			FileID:  t.FileID,
			Mime:    t.Mimetype,
			Length:  t.Length,
			Bitrate: t.Bitrate,
			GenreID: t.GenreID,
		})
		if t.Year != nil {
			if yearsByAlbum[t.AlbumID] == nil {
				yearsByAlbum[t.AlbumID] = make(map[int]bool)
			}
			yearsByAlbum[t.AlbumID][*t.Year] = true
		}
		if t.GenreID != nil {
			genreTracks[*t.GenreID] = append(genreTracks[*t.GenreID], t.ID)
		}
	}

	albumsByArtist := make(map[int64][]CollectionAlbum)
	for _, a := range albums {
		if _, ok := artistByID[a.AlbumArtistID]; !ok {
			util.WarnLog("album %d references missing artist %d, skipping", a.ID, a.AlbumArtistID)
			continue
		}
		albumsByArtist[a.AlbumArtistID] = append(albumsByArtist[a.AlbumArtistID], CollectionAlbum{
			ID:     a.ID,
			Name:   a.Name,
			Cover:  a.CoverFileID,
			Years:  sortedYears(yearsByAlbum[a.ID]),
			Tracks: tracksByAlbum[a.ID],
		})
	}

	coll := &Collection{}
	for _, a := range artists {
		albs := albumsByArtist[a.ID]
		if len(albs) == 0 {
			// performing-only artists carry no albums in the aggregate
			continue
		}
		coll.Artists = append(coll.Artists, CollectionArtist{
			ID:     a.ID,
			Name:   a.Name,
			Albums: albs,
		})
	}
	for _, g := range genres {
		coll.Genres = append(coll.Genres, CollectionGenre{
			ID:       g.ID,
			Name:     g.Name,
			TrackIDs: genreTracks[g.ID],
		})
	}
	return coll, nil
}

func sortedYears(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
