package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, path, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestSearchSongs(t *testing.T) {
	srv := newTestServer(t, "/search/songs", `{
		"success": true,
		"data": {"results": [{
			"id": "abc",
			"name": "Test Song",
			"duration": 241,
			"album": {"name": "Test Album"},
			"artists": {"primary": [{"id": "a1", "name": "Tester"}]},
			"image": [
				{"quality": "150x150", "url": "http://img/150"},
				{"quality": "500x500", "url": "http://img/500"}
			],
			"downloadUrl": [
				{"quality": "48kbps", "url": "http://cdn/48"},
				{"quality": "160kbps", "url": "http://cdn/160"},
				{"quality": "320kbps", "url": "http://cdn/320"}
			]
		}]}
	}`)
	defer srv.Close()

	c := NewClient(srv.URL, "160kbps", srv.Client())
	tracks, err := c.SearchSongs("test")
	if err != nil {
		t.Fatalf("SearchSongs failed: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}

	track := tracks[0]
	if track.ID != "abc" {
		t.Errorf("ID = %q, want abc", track.ID)
	}
	if track.Title != "Test Song" {
		t.Errorf("Title = %q, want Test Song", track.Title)
	}
	if track.Artist != "Tester" {
		t.Errorf("Artist = %q, want Tester", track.Artist)
	}
	if track.Duration != 241 {
		t.Errorf("Duration = %d, want 241", track.Duration)
	}
	if track.ArtworkURL != "http://img/500" {
		t.Errorf("ArtworkURL = %q, want the 500x500 rendition", track.ArtworkURL)
	}
	if track.URL != "http://cdn/160" {
		t.Errorf("URL = %q, want the 160kbps source", track.URL)
	}
}

func TestSearchSongs_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	if _, err := c.SearchSongs("test"); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestGetPlaylist(t *testing.T) {
	srv := newTestServer(t, "/playlists", `{
		"success": true,
		"data": {
			"id": "pl1",
			"name": "Chill",
			"description": "desc",
			"songCount": 1,
			"image": [{"quality": "500x500", "url": "http://img/pl"}],
			"songs": [{
				"id": "s1",
				"name": "One",
				"duration": 100,
				"album": {"name": "Al"},
				"artists": {"primary": [{"name": "Ar"}]},
				"downloadUrl": [{"quality": "160kbps", "url": "http://cdn/one"}]
			}]
		}
	}`)
	defer srv.Close()

	c := NewClient(srv.URL, "160kbps", srv.Client())
	pl, err := c.GetPlaylist("https://example.com/playlist/pl1")
	if err != nil {
		t.Fatalf("GetPlaylist failed: %v", err)
	}
	if pl.Name != "Chill" {
		t.Errorf("Name = %q, want Chill", pl.Name)
	}
	if len(pl.Songs) != 1 || pl.Songs[0].URL != "http://cdn/one" {
		t.Errorf("Songs = %+v, want one song with resolved URL", pl.Songs)
	}
}

func TestGetPlaylist_NotFound(t *testing.T) {
	srv := newTestServer(t, "/playlists", `{"success": false}`)
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	if _, err := c.GetPlaylist("nope"); err == nil {
		t.Fatal("expected error for unsuccessful response")
	}
}
