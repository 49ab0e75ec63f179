package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

func joinTrackIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func splitTrackIDs(list string) []int64 {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// CreatePlaylist creates a playlist with the given track id list
func (s *Store) CreatePlaylist(userID string, name string, trackIDs []int64) (*Playlist, error) {
	res, err := s.db.Exec(`
		INSERT INTO playlists (user_id, name, track_ids) VALUES (?, ?, ?)
	`, userID, name, joinTrackIDs(trackIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist id: %w", err)
	}

	return &Playlist{ID: id, UserID: userID, Name: name, TrackIDs: trackIDs}, nil
}

// FindPlaylist retrieves a playlist by id
func (s *Store) FindPlaylist(userID string, id int64) (*Playlist, error) {
	p := &Playlist{}
	var list string
	err := s.db.QueryRow(`
		SELECT id, user_id, name, track_ids FROM playlists WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&p.ID, &p.UserID, &p.Name, &list)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	p.TrackIDs = splitTrackIDs(list)
	return p, nil
}

// FindAllPlaylists returns all playlists of one user
func (s *Store) FindAllPlaylists(userID string) ([]*Playlist, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, track_ids FROM playlists
		WHERE user_id = ? ORDER BY name COLLATE NOCASE
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*Playlist
	for rows.Next() {
		p := &Playlist{}
		var list string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &list); err != nil {
			return nil, err
		}
		p.TrackIDs = splitTrackIDs(list)
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// UpdatePlaylistTracks replaces the track id list of a playlist
func (s *Store) UpdatePlaylistTracks(userID string, id int64, trackIDs []int64) error {
	_, err := s.db.Exec(`
		UPDATE playlists SET track_ids = ? WHERE id = ? AND user_id = ?
	`, joinTrackIDs(trackIDs), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return nil
}

// DeletePlaylist removes a playlist
func (s *Store) DeletePlaylist(userID string, id int64) error {
	_, err := s.db.Exec(`DELETE FROM playlists WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return nil
}

// RemoveTrackFromPlaylists splices a track id out of every playlist that
// references it. Playlists store id lists, not foreign keys, so this is an
// explicit pass over all lists.
func (s *Store) RemoveTrackFromPlaylists(userID string, trackID int64) error {
	playlists, err := s.FindAllPlaylists(userID)
	if err != nil {
		return err
	}

	for _, p := range playlists {
		kept := p.TrackIDs[:0]
		removed := false
		for _, id := range p.TrackIDs {
			if id == trackID {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if !removed {
			continue
		}
		if err := s.UpdatePlaylistTracks(userID, p.ID, kept); err != nil {
			return err
		}
	}
	return nil
}
