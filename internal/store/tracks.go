package store

import (
	"database/sql"
	"fmt"
)

const trackColumns = `id, user_id, file_id, folder_id, title, number, disk, year,
	genre_id, artist_id, album_id, mimetype, length, bitrate, dirty, updated_at`

func scanTrack(row interface{ Scan(...any) error }) (*Track, error) {
	t := &Track{}
	err := row.Scan(&t.ID, &t.UserID, &t.FileID, &t.FolderID, &t.Title, &t.Number,
		&t.Disk, &t.Year, &t.GenreID, &t.ArtistID, &t.AlbumID, &t.Mimetype,
		&t.Length, &t.Bitrate, &t.Dirty, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return t, nil
}

// UpsertTrack inserts or updates a track keyed by (file_id, user_id).
// Re-scanning the same file always updates the same row; the id and user id
// never change on conflict.
func (s *Store) UpsertTrack(t *Track) (*Track, error) {
	_, err := s.db.Exec(`
		INSERT INTO tracks (user_id, file_id, folder_id, title, number, disk, year,
			genre_id, artist_id, album_id, mimetype, length, bitrate, dirty, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, user_id) DO UPDATE SET
			folder_id = excluded.folder_id,
			title = excluded.title,
			number = excluded.number,
			disk = excluded.disk,
			year = excluded.year,
			genre_id = excluded.genre_id,
			artist_id = excluded.artist_id,
			album_id = excluded.album_id,
			mimetype = excluded.mimetype,
			length = excluded.length,
			bitrate = excluded.bitrate,
			dirty = excluded.dirty,
			updated_at = excluded.updated_at
	`, t.UserID, t.FileID, t.FolderID, t.Title, t.Number, t.Disk, t.Year,
		t.GenreID, t.ArtistID, t.AlbumID, t.Mimetype, t.Length, t.Bitrate, t.Dirty, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert track: %w", err)
	}

	return s.FindTrackByFile(t.UserID, t.FileID)
}

// FindTrackByFile retrieves the track indexed for a file id
func (s *Store) FindTrackByFile(userID string, fileID int64) (*Track, error) {
	return scanTrack(s.db.QueryRow(`
		SELECT `+trackColumns+` FROM tracks WHERE file_id = ? AND user_id = ?
	`, fileID, userID))
}

// FindTrack retrieves a track by id
func (s *Store) FindTrack(userID string, id int64) (*Track, error) {
	return scanTrack(s.db.QueryRow(`
		SELECT `+trackColumns+` FROM tracks WHERE id = ? AND user_id = ?
	`, id, userID))
}

func (s *Store) queryTracks(query string, args ...any) ([]*Track, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// FindAllTracks returns all tracks of one user
func (s *Store) FindAllTracks(userID string) ([]*Track, error) {
	return s.queryTracks(`
		SELECT `+trackColumns+` FROM tracks WHERE user_id = ?
		ORDER BY album_id, disk, number, title COLLATE NOCASE
	`, userID)
}

// FindTracksByAlbum returns the tracks of one album in play order
func (s *Store) FindTracksByAlbum(userID string, albumID int64) ([]*Track, error) {
	return s.queryTracks(`
		SELECT `+trackColumns+` FROM tracks WHERE album_id = ? AND user_id = ?
		ORDER BY disk, number, title COLLATE NOCASE
	`, albumID, userID)
}

// TrackFileIDs returns the set of file ids already indexed for the user
func (s *Store) TrackFileIDs(userID string) (map[int64]bool, error) {
	rows, err := s.db.Query(`SELECT file_id FROM tracks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query file ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// FolderTrackIndex returns, per folder id, the ids of the tracks stored
// directly in that folder. This is the leaf data the folder tree is
// reconstructed from.
func (s *Store) FolderTrackIndex(userID string) (map[int64][]int64, error) {
	rows, err := s.db.Query(`
		SELECT folder_id, id FROM tracks WHERE user_id = ? ORDER BY folder_id, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query folder index: %w", err)
	}
	defer rows.Close()

	index := make(map[int64][]int64)
	for rows.Next() {
		var folderID, trackID int64
		if err := rows.Scan(&folderID, &trackID); err != nil {
			return nil, err
		}
		index[folderID] = append(index[folderID], trackID)
	}
	return index, rows.Err()
}

// SetTrackDirty sets or clears the explicit dirty flag of a track
func (s *Store) SetTrackDirty(userID string, fileID int64, dirty bool) error {
	_, err := s.db.Exec(`
		UPDATE tracks SET dirty = ? WHERE file_id = ? AND user_id = ?
	`, dirty, fileID, userID)
	if err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}
	return nil
}

// DeleteTracks removes the given track rows
func (s *Store) DeleteTracks(userID string, ids []int64) error {
	for _, id := range ids {
		if _, err := s.db.Exec(`DELETE FROM tracks WHERE id = ? AND user_id = ?`, id, userID); err != nil {
			return fmt.Errorf("failed to delete track %d: %w", id, err)
		}
	}
	return nil
}
