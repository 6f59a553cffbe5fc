package state

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lyra-music/lyra/internal/catalog"
	"github.com/lyra-music/lyra/internal/playback"
)

// setupTestDB creates an in-memory SQLite database with the schema
// initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := initSchema(db); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return db
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := OpenPath(filepath.Join(t.TempDir(), "test.db"), log)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func snapTracks(ids ...string) []catalog.Track {
	out := make([]catalog.Track, len(ids))
	for i, id := range ids {
		out[i] = catalog.Track{ID: id, Title: "Track " + id, Artist: "Artist", Album: "Album", Duration: 180, URL: "http://cdn/" + id}
	}
	return out
}

func TestLoadSnapshot_EmptyDB(t *testing.T) {
	db := setupTestDB(t)

	_, ok, err := loadSnapshot(db)
	if err != nil {
		t.Fatalf("loadSnapshot failed: %v", err)
	}
	if ok {
		t.Error("ok = true on empty db, want false")
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	db := setupTestDB(t)

	in := playback.Snapshot{
		Play:           snapTracks("b", "a", "c"),
		Original:       snapTracks("a", "b", "c"),
		CurrentTrackID: "a",
		Shuffle:        true,
		Repeat:         playback.RepeatAll,
		RecentlyPlayed: []string{"a", "z"},
	}
	if err := saveSnapshot(db, in); err != nil {
		t.Fatalf("saveSnapshot failed: %v", err)
	}

	out, ok, err := loadSnapshot(db)
	if err != nil {
		t.Fatalf("loadSnapshot failed: %v", err)
	}
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if out.CurrentTrackID != "a" || !out.Shuffle || out.Repeat != playback.RepeatAll {
		t.Errorf("scalar fields = %q/%v/%v, want a/true/RepeatAll", out.CurrentTrackID, out.Shuffle, out.Repeat)
	}
	for i, id := range []string{"b", "a", "c"} {
		if out.Play[i].ID != id {
			t.Fatalf("play order = %v, want [b a c]", out.Play)
		}
	}
	for i, id := range []string{"a", "b", "c"} {
		if out.Original[i].ID != id {
			t.Fatalf("original order = %v, want [a b c]", out.Original)
		}
	}
	if out.Play[0].Title != "Track b" || out.Play[0].URL != "http://cdn/b" || out.Play[0].Duration != 180 {
		t.Errorf("track fields not round-tripped: %+v", out.Play[0])
	}
	if len(out.RecentlyPlayed) != 2 || out.RecentlyPlayed[0] != "a" {
		t.Errorf("recently played = %v, want [a z]", out.RecentlyPlayed)
	}
}

func TestSaveSnapshot_OverwritesPrevious(t *testing.T) {
	db := setupTestDB(t)

	if err := saveSnapshot(db, playback.Snapshot{Play: snapTracks("a", "b"), Original: snapTracks("a", "b")}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := saveSnapshot(db, playback.Snapshot{Play: snapTracks("c"), Original: snapTracks("c"), CurrentTrackID: "c"}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	out, ok, err := loadSnapshot(db)
	if err != nil || !ok {
		t.Fatalf("loadSnapshot = %v/%v", ok, err)
	}
	if len(out.Play) != 1 || out.Play[0].ID != "c" {
		t.Errorf("play = %v, want [c]", out.Play)
	}
}

func TestLoadSnapshot_InvalidRepeatModeFallsBack(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(`INSERT INTO player_state (id, current_track_id, shuffle, repeat_mode) VALUES (1, 'x', 0, 99)`)
	if err != nil {
		t.Fatal(err)
	}

	out, ok, err := loadSnapshot(db)
	if err != nil || !ok {
		t.Fatalf("loadSnapshot = %v/%v", ok, err)
	}
	if out.Repeat != playback.RepeatNone {
		t.Errorf("Repeat = %v, want RepeatNone for out-of-range value", out.Repeat)
	}
}

func TestManager_LoadSnapshotOnCorruptSchema(t *testing.T) {
	m := newTestManager(t)

	// Breaking the table simulates on-disk corruption; load must fall
	// back to defaults instead of failing startup.
	if _, err := m.db.Exec(`DROP TABLE player_state`); err != nil {
		t.Fatal(err)
	}

	_, ok := m.LoadSnapshot()
	if ok {
		t.Error("ok = true on corrupt db, want false")
	}
}

func TestManager_DebouncedSaveFlushesOnClose(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "test.db")
	m, err := OpenPath(path, log)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}

	m.SaveSnapshot(playback.Snapshot{Play: snapTracks("a"), Original: snapTracks("a"), CurrentTrackID: "a"})
	// Close before the debounce window elapses; the pending write must
	// still hit disk.
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m2, err := OpenPath(path, log)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m2.Close()

	snap, ok := m2.LoadSnapshot()
	if !ok {
		t.Fatal("snapshot not persisted")
	}
	if snap.CurrentTrackID != "a" {
		t.Errorf("CurrentTrackID = %q, want a", snap.CurrentTrackID)
	}
}

func TestManager_DebouncedSaveWritesAfterDelay(t *testing.T) {
	m := newTestManager(t)

	m.SaveSnapshot(playback.Snapshot{Play: snapTracks("a"), Original: snapTracks("a"), CurrentTrackID: "a"})

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := m.LoadSnapshot(); ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("debounced snapshot never written")
}
