package state

import (
	"testing"
	"time"

	"github.com/lyra-music/lyra/internal/catalog"
	"github.com/lyra-music/lyra/internal/downloads"
)

func TestDownloadRecords_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	rec := downloads.Record{
		Track:       catalog.Track{ID: "t1", Title: "Song", Artist: "Artist", Album: "Album", Duration: 200, URL: "http://cdn/t1"},
		Path:        "/data/lyra/downloads/t1.mp3",
		SizeBytes:   4096,
		CompletedAt: time.Unix(1756000000, 0),
	}
	if err := m.SaveDownload(rec); err != nil {
		t.Fatalf("SaveDownload failed: %v", err)
	}

	recs, err := m.ListDownloads()
	if err != nil {
		t.Fatalf("ListDownloads failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	got := recs[0]
	if got.Track.ID != "t1" || got.Track.Title != "Song" || got.Path != rec.Path || got.SizeBytes != 4096 {
		t.Errorf("record = %+v, want %+v", got, rec)
	}
	if !got.CompletedAt.Equal(rec.CompletedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, rec.CompletedAt)
	}
}

func TestDownloadRecords_UpsertAndDelete(t *testing.T) {
	m := newTestManager(t)

	rec := downloads.Record{
		Track:       catalog.Track{ID: "t1", Title: "Song"},
		Path:        "/old/path.mp3",
		CompletedAt: time.Now(),
	}
	if err := m.SaveDownload(rec); err != nil {
		t.Fatal(err)
	}
	rec.Path = "/new/path.mp3"
	if err := m.SaveDownload(rec); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	recs, err := m.ListDownloads()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Path != "/new/path.mp3" {
		t.Errorf("records = %+v, want single record with new path", recs)
	}

	if err := m.DeleteDownload("t1"); err != nil {
		t.Fatalf("DeleteDownload failed: %v", err)
	}
	recs, err = m.ListDownloads()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("records after delete = %+v, want none", recs)
	}
}
