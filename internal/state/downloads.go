package state

import (
	"database/sql"
	"time"

	dbutil "github.com/lyra-music/lyra/internal/db"
	"github.com/lyra-music/lyra/internal/downloads"
)

// SaveDownload upserts a completed download record.
func (m *Manager) SaveDownload(rec downloads.Record) error {
	_, err := m.db.Exec(`
		INSERT INTO downloads (track_id, title, artist, album, artwork_url, duration, url, path, size_bytes, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			path = excluded.path,
			size_bytes = excluded.size_bytes,
			completed_at = excluded.completed_at
	`, rec.Track.ID, rec.Track.Title, rec.Track.Artist, rec.Track.Album, rec.Track.ArtworkURL,
		rec.Track.Duration, rec.Track.URL, rec.Path, rec.SizeBytes, rec.CompletedAt.Unix())
	return err
}

// DeleteDownload removes a download record.
func (m *Manager) DeleteDownload(trackID string) error {
	_, err := m.db.Exec(`DELETE FROM downloads WHERE track_id = ?`, trackID)
	return err
}

// ListDownloads returns all download records, most recent first.
func (m *Manager) ListDownloads() ([]downloads.Record, error) {
	rows, err := m.db.Query(`
		SELECT track_id, title, artist, album, artwork_url, duration, url, path, size_bytes, completed_at
		FROM downloads
		ORDER BY completed_at DESC, track_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []downloads.Record
	for rows.Next() {
		var rec downloads.Record
		var artist, album, artwork, url sql.NullString
		var duration sql.NullInt64
		var completedAt int64
		err := rows.Scan(&rec.Track.ID, &rec.Track.Title, &artist, &album, &artwork,
			&duration, &url, &rec.Path, &rec.SizeBytes, &completedAt)
		if err != nil {
			return nil, err
		}
		rec.Track.Artist = dbutil.NullStringValue(artist)
		rec.Track.Album = dbutil.NullStringValue(album)
		rec.Track.ArtworkURL = dbutil.NullStringValue(artwork)
		rec.Track.Duration = int(dbutil.NullInt64Value(duration))
		rec.Track.URL = dbutil.NullStringValue(url)
		rec.CompletedAt = time.Unix(completedAt, 0)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Verify Manager satisfies the download record contract at compile time.
var _ downloads.Store = (*Manager)(nil)
