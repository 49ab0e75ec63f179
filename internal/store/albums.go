package store

import (
	"database/sql"
	"fmt"
)

// UpsertAlbum inserts an album row keyed by its identity hash, recovering
// from a concurrent insert by re-reading the winning row.
func (s *Store) UpsertAlbum(userID string, name *string, albumArtistID int64, identityHash string) (*Album, error) {
	res, err := s.db.Exec(`
		INSERT INTO albums (user_id, name, album_artist_id, identity_hash)
		VALUES (?, ?, ?, ?)
	`, userID, name, albumArtistID, identityHash)
	if err != nil {
		if isUniqueViolation(err) {
			return s.FindAlbumByIdentity(userID, identityHash)
		}
		return nil, fmt.Errorf("failed to insert album: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get album id: %w", err)
	}

	return &Album{
		ID:            id,
		UserID:        userID,
		Name:          name,
		AlbumArtistID: albumArtistID,
		IdentityHash:  identityHash,
		DiskCount:     1,
	}, nil
}

func (s *Store) scanAlbum(row *sql.Row) (*Album, error) {
	a := &Album{}
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.AlbumArtistID, &a.IdentityHash, &a.CoverFileID, &a.DiskCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return a, nil
}

// FindAlbumByIdentity retrieves an album by its identity hash
func (s *Store) FindAlbumByIdentity(userID string, identityHash string) (*Album, error) {
	return s.scanAlbum(s.db.QueryRow(`
		SELECT id, user_id, name, album_artist_id, identity_hash, cover_file_id, disk_count
		FROM albums WHERE identity_hash = ? AND user_id = ?
	`, identityHash, userID))
}

// FindAlbum retrieves an album by id
func (s *Store) FindAlbum(userID string, id int64) (*Album, error) {
	return s.scanAlbum(s.db.QueryRow(`
		SELECT id, user_id, name, album_artist_id, identity_hash, cover_file_id, disk_count
		FROM albums WHERE id = ? AND user_id = ?
	`, id, userID))
}

// FindAllAlbums returns all albums of one user
func (s *Store) FindAllAlbums(userID string) ([]*Album, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, album_artist_id, identity_hash, cover_file_id, disk_count
		FROM albums WHERE user_id = ?
		ORDER BY name COLLATE NOCASE
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		a := &Album{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.AlbumArtistID, &a.IdentityHash, &a.CoverFileID, &a.DiskCount); err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// FindAlbumsByCoverFile returns albums whose cover is the given file
func (s *Store) FindAlbumsByCoverFile(userID string, fileID int64) ([]*Album, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, album_artist_id, identity_hash, cover_file_id, disk_count
		FROM albums WHERE cover_file_id = ? AND user_id = ?
	`, fileID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums by cover: %w", err)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		a := &Album{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.AlbumArtistID, &a.IdentityHash, &a.CoverFileID, &a.DiskCount); err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// FindAlbumsWithoutCoverInFolder returns cover-less albums that have at
// least one track stored in the given folder
func (s *Store) FindAlbumsWithoutCoverInFolder(userID string, folderID int64) ([]*Album, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT a.id, a.user_id, a.name, a.album_artist_id, a.identity_hash, a.cover_file_id, a.disk_count
		FROM albums a
		JOIN tracks t ON t.album_id = a.id
		WHERE a.cover_file_id IS NULL AND a.user_id = ? AND t.folder_id = ?
	`, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverless albums: %w", err)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		a := &Album{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.AlbumArtistID, &a.IdentityHash, &a.CoverFileID, &a.DiskCount); err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// SetAlbumCover sets or clears the cover file of an album
func (s *Store) SetAlbumCover(userID string, albumID int64, coverFileID *int64) error {
	_, err := s.db.Exec(`
		UPDATE albums SET cover_file_id = ? WHERE id = ? AND user_id = ?
	`, coverFileID, albumID, userID)
	if err != nil {
		return fmt.Errorf("failed to set album cover: %w", err)
	}
	return nil
}

// BumpAlbumDiskCount raises disk_count to at least disk
func (s *Store) BumpAlbumDiskCount(userID string, albumID int64, disk int) error {
	_, err := s.db.Exec(`
		UPDATE albums SET disk_count = ? WHERE id = ? AND user_id = ? AND disk_count < ?
	`, disk, albumID, userID, disk)
	if err != nil {
		return fmt.Errorf("failed to bump disk count: %w", err)
	}
	return nil
}

// DeleteAlbums removes the given album rows
func (s *Store) DeleteAlbums(userID string, ids []int64) error {
	for _, id := range ids {
		if _, err := s.db.Exec(`DELETE FROM albums WHERE id = ? AND user_id = ?`, id, userID); err != nil {
			return fmt.Errorf("failed to delete album %d: %w", id, err)
		}
	}
	return nil
}

// CountTracksByAlbum counts tracks contained in the album
func (s *Store) CountTracksByAlbum(userID string, albumID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM tracks WHERE album_id = ? AND user_id = ?
	`, albumID, userID).Scan(&count)
	return count, err
}
