package catalog

import "testing"

func TestArtworkURL(t *testing.T) {
	tests := []struct {
		name   string
		images []apiQualityURL
		want   string
	}{
		{
			name: "prefers 500x500",
			images: []apiQualityURL{
				{Quality: "50x50", URL: "small"},
				{Quality: "500x500", URL: "big"},
				{Quality: "150x150", URL: "mid"},
			},
			want: "big",
		},
		{
			name: "falls back to last entry",
			images: []apiQualityURL{
				{Quality: "50x50", URL: "small"},
				{Quality: "150x150", URL: "mid"},
			},
			want: "mid",
		},
		{name: "empty list", images: nil, want: ""},
	}
	for _, tt := range tests {
		if got := artworkURL(tt.images); got != tt.want {
			t.Errorf("%s: artworkURL() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestStreamURL(t *testing.T) {
	urls := []apiQualityURL{
		{Quality: "48kbps", URL: "low"},
		{Quality: "160kbps", URL: "std"},
		{Quality: "320kbps", URL: "high"},
	}

	if got := streamURL(urls, "160kbps"); got != "std" {
		t.Errorf("streamURL(160kbps) = %q, want %q", got, "std")
	}
	if got := streamURL(urls, "320kbps"); got != "high" {
		t.Errorf("streamURL(320kbps) = %q, want %q", got, "high")
	}
	// Unknown label falls back to the last entry.
	if got := streamURL(urls, "96kbps"); got != "high" {
		t.Errorf("streamURL(96kbps) = %q, want %q", got, "high")
	}
	if got := streamURL(nil, "160kbps"); got != "" {
		t.Errorf("streamURL(empty) = %q, want empty", got)
	}
}

func TestConvertSong_Fallbacks(t *testing.T) {
	c := NewClient("", "", nil)

	track := c.convertSong(apiSong{ID: "s1", Name: "Song"})

	if track.Artist != "Unknown Artist" {
		t.Errorf("Artist = %q, want Unknown Artist", track.Artist)
	}
	if track.Album != "Unknown Album" {
		t.Errorf("Album = %q, want Unknown Album", track.Album)
	}
	if track.URL != "" {
		t.Errorf("URL = %q, want empty for song without sources", track.URL)
	}
}

func TestConvertSong_JoinsPrimaryArtists(t *testing.T) {
	c := NewClient("", "", nil)

	track := c.convertSong(apiSong{
		ID:   "s1",
		Name: "Duet",
		Artists: struct {
			Primary []apiArtistRef `json:"primary"`
		}{Primary: []apiArtistRef{{Name: "First"}, {Name: "Second"}}},
	})

	if track.Artist != "First, Second" {
		t.Errorf("Artist = %q, want %q", track.Artist, "First, Second")
	}
}
