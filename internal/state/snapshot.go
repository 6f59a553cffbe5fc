package state

import (
	"database/sql"
	"errors"

	"github.com/lyra-music/lyra/internal/catalog"
	dbutil "github.com/lyra-music/lyra/internal/db"
	"github.com/lyra-music/lyra/internal/playback"
)

const (
	orderingPlay     = "play"
	orderingOriginal = "original"
)

func saveSnapshot(sqlDB *sql.DB, snap playback.Snapshot) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM recently_played`); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO player_state (id, current_track_id, shuffle, repeat_mode)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_track_id = excluded.current_track_id,
				shuffle = excluded.shuffle,
				repeat_mode = excluded.repeat_mode
		`, snap.CurrentTrackID, snap.Shuffle, int(snap.Repeat))
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (ordering, position, track_id, title, artist, album, artwork_url, duration, url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for ordering, tracks := range map[string][]catalog.Track{
			orderingPlay:     snap.Play,
			orderingOriginal: snap.Original,
		} {
			for i, t := range tracks {
				if _, err := stmt.Exec(ordering, i, t.ID, t.Title, t.Artist, t.Album, t.ArtworkURL, t.Duration, t.URL); err != nil {
					return err
				}
			}
		}

		recent, err := tx.Prepare(`INSERT INTO recently_played (position, track_id) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer recent.Close()
		for i, id := range snap.RecentlyPlayed {
			if _, err := recent.Exec(i, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func loadSnapshot(db *sql.DB) (playback.Snapshot, bool, error) {
	var snap playback.Snapshot

	var currentID sql.NullString
	var shuffle bool
	var repeatMode int
	row := db.QueryRow(`SELECT current_track_id, shuffle, repeat_mode FROM player_state WHERE id = 1`)
	err := row.Scan(&currentID, &shuffle, &repeatMode)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, err
	}

	snap.CurrentTrackID = dbutil.NullStringValue(currentID)
	snap.Shuffle = shuffle
	snap.Repeat = playback.RepeatMode(repeatMode)
	if snap.Repeat < playback.RepeatNone || snap.Repeat > playback.RepeatAll {
		snap.Repeat = playback.RepeatNone
	}

	snap.Play, err = loadOrdering(db, orderingPlay)
	if err != nil {
		return playback.Snapshot{}, false, err
	}
	snap.Original, err = loadOrdering(db, orderingOriginal)
	if err != nil {
		return playback.Snapshot{}, false, err
	}

	rows, err := db.Query(`SELECT track_id FROM recently_played ORDER BY position`)
	if err != nil {
		return playback.Snapshot{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return playback.Snapshot{}, false, err
		}
		snap.RecentlyPlayed = append(snap.RecentlyPlayed, id)
	}
	if err := rows.Err(); err != nil {
		return playback.Snapshot{}, false, err
	}

	return snap, true, nil
}

func loadOrdering(db *sql.DB, ordering string) ([]catalog.Track, error) {
	rows, err := db.Query(`
		SELECT track_id, title, artist, album, artwork_url, duration, url
		FROM queue_tracks
		WHERE ordering = ?
		ORDER BY position
	`, ordering)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []catalog.Track
	for rows.Next() {
		var t catalog.Track
		var artist, album, artwork, url sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Title, &artist, &album, &artwork, &duration, &url); err != nil {
			return nil, err
		}
		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.ArtworkURL = dbutil.NullStringValue(artwork)
		t.Duration = int(dbutil.NullInt64Value(duration))
		t.URL = dbutil.NullStringValue(url)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}
