package state

import (
	"database/sql"
	"time"

	"github.com/lyra-music/lyra/internal/catalog"
	dbutil "github.com/lyra-music/lyra/internal/db"
)

// ToggleFavorite adds the track to favorites, or removes it when
// already present. Returns the new favorite state.
func (m *Manager) ToggleFavorite(track catalog.Track) (bool, error) {
	fav, err := m.IsFavorite(track.ID)
	if err != nil {
		return false, err
	}

	if fav {
		_, err := m.db.Exec(`DELETE FROM favorites WHERE track_id = ?`, track.ID)
		return false, err
	}
	_, err = m.db.Exec(`
		INSERT INTO favorites (track_id, title, artist, album, artwork_url, duration, url, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, track.ID, track.Title, track.Artist, track.Album, track.ArtworkURL, track.Duration, track.URL, time.Now().Unix())
	return true, err
}

// IsFavorite reports whether the track is favorited.
func (m *Manager) IsFavorite(trackID string) (bool, error) {
	var n int
	err := m.db.QueryRow(`SELECT COUNT(*) FROM favorites WHERE track_id = ?`, trackID).Scan(&n)
	return n > 0, err
}

// Favorites lists favorited tracks, most recently added first.
func (m *Manager) Favorites() ([]catalog.Track, error) {
	rows, err := m.db.Query(`
		SELECT track_id, title, artist, album, artwork_url, duration, url
		FROM favorites
		ORDER BY added_at DESC, track_id
	`)
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
		t.Favorite = true
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}
