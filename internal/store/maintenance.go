package store

import (
	"database/sql"
	"fmt"
)

// ResetUser wipes all indexed data of one user: tracks, albums, artists,
// genres, playlists and cached derived data. The file tree itself is never
// touched; a subsequent scan rebuilds everything.
func (s *Store) ResetUser(userID string) error {
	return s.Transaction(func(tx *sql.Tx) error {
		tables := []string{"tracks", "albums", "artists", "genres", "playlists", "cache"}
		for _, table := range tables {
			if _, err := tx.Exec(`DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
				return fmt.Errorf("failed to reset %s: %w", table, err)
			}
		}
		return nil
	})
}
