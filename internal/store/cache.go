package store

import (
	"database/sql"
	"fmt"
)

// CacheGet returns the cached value for a key, or ErrNotFound
func (s *Store) CacheGet(userID string, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`
		SELECT data FROM cache WHERE user_id = ? AND key = ?
	`, userID, key).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return data, nil
}

// CacheAdd stores a value under a key. Adding to an already populated key
// fails with ErrCacheKeyExists so that two writers racing on the same
// derived value can tell the loser apart from a real failure.
func (s *Store) CacheAdd(userID string, key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO cache (user_id, key, data) VALUES (?, ?, ?)
	`, userID, key, data)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCacheKeyExists
		}
		return fmt.Errorf("failed to add cache entry: %w", err)
	}
	return nil
}

// CacheRemove removes one key, or every key of the user when key is empty
func (s *Store) CacheRemove(userID string, key string) error {
	var err error
	if key == "" {
		_, err = s.db.Exec(`DELETE FROM cache WHERE user_id = ?`, userID)
	} else {
		_, err = s.db.Exec(`DELETE FROM cache WHERE user_id = ? AND key = ?`, userID, key)
	}
	if err != nil {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

// CacheRemovePrefix removes every key of the user starting with prefix
func (s *Store) CacheRemovePrefix(userID string, prefix string) error {
	_, err := s.db.Exec(`
		DELETE FROM cache WHERE user_id = ? AND key LIKE ?
	`, userID, prefix+"%")
	if err != nil {
		return fmt.Errorf("failed to remove cache entries: %w", err)
	}
	return nil
}
