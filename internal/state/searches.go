package state

import (
	"context"
	"database/sql"
	"strings"
	"time"

	dbutil "github.com/lyra-music/lyra/internal/db"
)

const maxRecentSearches = 10

// AddRecentSearch records a search query, deduplicating and keeping
// only the most recent entries. Blank queries are ignored. The upsert
// and the prune beyond the cap run in one transaction.
func (m *Manager) AddRecentSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	return dbutil.WithTxContext(ctx, m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO recent_searches (query, searched_at)
			VALUES (?, ?)
			ON CONFLICT(query) DO UPDATE SET searched_at = excluded.searched_at
		`, query, time.Now().UnixNano())
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM recent_searches
			WHERE id NOT IN (
				SELECT id FROM recent_searches
				ORDER BY searched_at DESC
				LIMIT ?
			)
		`, maxRecentSearches)
		return err
	})
}

// RecentSearches lists stored queries, most recent first.
func (m *Manager) RecentSearches() ([]string, error) {
	rows, err := m.db.Query(`
		SELECT query FROM recent_searches
		ORDER BY searched_at DESC
		LIMIT ?
	`, maxRecentSearches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// ClearRecentSearches removes all stored queries.
func (m *Manager) ClearRecentSearches() error {
	_, err := m.db.Exec(`DELETE FROM recent_searches`)
	return err
}
