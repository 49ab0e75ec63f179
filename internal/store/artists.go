package store

import (
	"database/sql"
	"fmt"
)

// UpsertArtist inserts an artist row keyed by its identity hash. A uniqueness
// violation means a concurrent writer won the insert; the winning row is
// re-read and returned instead.
func (s *Store) UpsertArtist(userID string, name *string, identityHash string) (*Artist, error) {
	res, err := s.db.Exec(`
		INSERT INTO artists (user_id, name, identity_hash)
		VALUES (?, ?, ?)
	`, userID, name, identityHash)
	if err != nil {
		if isUniqueViolation(err) {
			return s.FindArtistByIdentity(userID, identityHash)
		}
		return nil, fmt.Errorf("failed to insert artist: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get artist id: %w", err)
	}

	return &Artist{ID: id, UserID: userID, Name: name, IdentityHash: identityHash}, nil
}

// FindArtistByIdentity retrieves an artist by its identity hash
func (s *Store) FindArtistByIdentity(userID string, identityHash string) (*Artist, error) {
	a := &Artist{}
	err := s.db.QueryRow(`
		SELECT id, user_id, name, identity_hash
		FROM artists WHERE identity_hash = ? AND user_id = ?
	`, identityHash, userID).Scan(&a.ID, &a.UserID, &a.Name, &a.IdentityHash)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}

	return a, nil
}

// FindArtist retrieves an artist by id
func (s *Store) FindArtist(userID string, id int64) (*Artist, error) {
	a := &Artist{}
	err := s.db.QueryRow(`
		SELECT id, user_id, name, identity_hash
		FROM artists WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&a.ID, &a.UserID, &a.Name, &a.IdentityHash)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}

	return a, nil
}

// FindAllArtists returns all artists of one user
func (s *Store) FindAllArtists(userID string) ([]*Artist, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, identity_hash
		FROM artists WHERE user_id = ?
		ORDER BY name COLLATE NOCASE
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*Artist
	for rows.Next() {
		a := &Artist{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.IdentityHash); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// DeleteArtists removes the given artist rows
func (s *Store) DeleteArtists(userID string, ids []int64) error {
	for _, id := range ids {
		if _, err := s.db.Exec(`DELETE FROM artists WHERE id = ? AND user_id = ?`, id, userID); err != nil {
			return fmt.Errorf("failed to delete artist %d: %w", id, err)
		}
	}
	return nil
}

// CountTracksByArtist counts tracks crediting the artist as performer
func (s *Store) CountTracksByArtist(userID string, artistID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM tracks WHERE artist_id = ? AND user_id = ?
	`, artistID, userID).Scan(&count)
	return count, err
}

// CountAlbumsByAlbumArtist counts albums the artist is the album artist of
func (s *Store) CountAlbumsByAlbumArtist(userID string, artistID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM albums WHERE album_artist_id = ? AND user_id = ?
	`, artistID, userID).Scan(&count)
	return count, err
}
