package state

import (
	"context"
	"testing"

	"github.com/lyra-music/lyra/internal/catalog"
)

func TestToggleFavorite(t *testing.T) {
	m := newTestManager(t)
	track := catalog.Track{ID: "t1", Title: "Song", Artist: "Artist"}

	fav, err := m.ToggleFavorite(track)
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if !fav {
		t.Error("first toggle = false, want true")
	}

	if got, _ := m.IsFavorite("t1"); !got {
		t.Error("IsFavorite = false after add")
	}

	fav, err = m.ToggleFavorite(track)
	if err != nil {
		t.Fatalf("second ToggleFavorite failed: %v", err)
	}
	if fav {
		t.Error("second toggle = true, want false")
	}
	if got, _ := m.IsFavorite("t1"); got {
		t.Error("IsFavorite = true after remove")
	}
}

func TestFavorites_MostRecentFirst(t *testing.T) {
	m := newTestManager(t)

	// Rows share a timestamp when toggled within the same second, so
	// ordering falls back to track id.
	if _, err := m.ToggleFavorite(catalog.Track{ID: "a", Title: "A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ToggleFavorite(catalog.Track{ID: "b", Title: "B"}); err != nil {
		t.Fatal(err)
	}

	favs, err := m.Favorites()
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if len(favs) != 2 {
		t.Fatalf("len = %d, want 2", len(favs))
	}
	for _, f := range favs {
		if !f.Favorite {
			t.Errorf("track %s not flagged as favorite", f.ID)
		}
	}
}

func TestRecentSearches_DedupedAndBounded(t *testing.T) {
	m := newTestManager(t)

	if err := m.AddRecentSearch(context.Background(), "  "); err != nil {
		t.Fatal(err)
	}
	queries := []string{"one", "two", "three", "two"}
	for _, q := range queries {
		if err := m.AddRecentSearch(context.Background(), q); err != nil {
			t.Fatalf("AddRecentSearch(%q) failed: %v", q, err)
		}
	}

	got, err := m.RecentSearches()
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	want := []string{"two", "three", "one"}
	if len(got) != len(want) {
		t.Fatalf("searches = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("searches = %v, want %v", got, want)
		}
	}
}

func TestRecentSearches_CapEnforced(t *testing.T) {
	m := newTestManager(t)

	for _, q := range []string{"q0", "q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10", "q11"} {
		if err := m.AddRecentSearch(context.Background(), q); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.RecentSearches()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != maxRecentSearches {
		t.Errorf("len = %d, want %d", len(got), maxRecentSearches)
	}
	if got[0] != "q11" {
		t.Errorf("most recent = %q, want q11", got[0])
	}
	for _, q := range got {
		if q == "q0" || q == "q1" {
			t.Errorf("oldest query %q survived the cap", q)
		}
	}
}

func TestAddRecentSearch_CancelledContext(t *testing.T) {
	m := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.AddRecentSearch(ctx, "one"); err == nil {
		t.Fatal("expected error with cancelled context")
	}

	got, err := m.RecentSearches()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("searches = %v, want empty", got)
	}
}

func TestClearRecentSearches(t *testing.T) {
	m := newTestManager(t)

	if err := m.AddRecentSearch(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	if err := m.ClearRecentSearches(); err != nil {
		t.Fatalf("ClearRecentSearches failed: %v", err)
	}

	got, err := m.RecentSearches()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("searches = %v, want empty", got)
	}
}
