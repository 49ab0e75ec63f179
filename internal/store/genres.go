package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// UpsertGenre inserts a genre keyed by its case-folded name, recovering from
// a concurrent insert the same way as UpsertArtist.
func (s *Store) UpsertGenre(userID string, name string) (*Genre, error) {
	lower := strings.ToLower(name)

	res, err := s.db.Exec(`
		INSERT INTO genres (user_id, name, lower_name)
		VALUES (?, ?, ?)
	`, userID, name, lower)
	if err != nil {
		if isUniqueViolation(err) {
			return s.findGenreByLowerName(userID, lower)
		}
		return nil, fmt.Errorf("failed to insert genre: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get genre id: %w", err)
	}

	return &Genre{ID: id, UserID: userID, Name: name, LowerName: lower}, nil
}

func (s *Store) findGenreByLowerName(userID string, lower string) (*Genre, error) {
	g := &Genre{}
	err := s.db.QueryRow(`
		SELECT id, user_id, name, lower_name
		FROM genres WHERE lower_name = ? AND user_id = ?
	`, lower, userID).Scan(&g.ID, &g.UserID, &g.Name, &g.LowerName)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}

	return g, nil
}

// FindAllGenres returns all genres of one user
func (s *Store) FindAllGenres(userID string) ([]*Genre, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, lower_name
		FROM genres WHERE user_id = ?
		ORDER BY lower_name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []*Genre
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.LowerName); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
