package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS player_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_track_id TEXT,
			shuffle INTEGER NOT NULL DEFAULT 0,
			repeat_mode INTEGER NOT NULL DEFAULT 0
		);

		-- Both queue orderings live here, discriminated by the ordering
		-- column ('play' or 'original').
		CREATE TABLE IF NOT EXISTS queue_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ordering TEXT NOT NULL,
			position INTEGER NOT NULL,
			track_id TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			artwork_url TEXT,
			duration INTEGER,
			url TEXT,
			UNIQUE(ordering, position)
		);

		CREATE INDEX IF NOT EXISTS idx_queue_tracks_ordering ON queue_tracks(ordering, position);

		CREATE TABLE IF NOT EXISTS recently_played (
			position INTEGER PRIMARY KEY,
			track_id TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS favorites (
			track_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			artwork_url TEXT,
			duration INTEGER,
			url TEXT,
			added_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_favorites_added_at ON favorites(added_at DESC);

		CREATE TABLE IF NOT EXISTS recent_searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL UNIQUE,
			searched_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS downloads (
			track_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			artwork_url TEXT,
			duration INTEGER,
			url TEXT,
			path TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			completed_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
