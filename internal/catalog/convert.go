package catalog

import (
	"strings"

	"github.com/samber/lo"
)

// Wire types matching the provider's JSON shapes. Only the consumed
// fields are declared.

type apiQualityURL struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type apiArtistRef struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Image []apiQualityURL `json:"image"`
}

type apiSong struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Album    struct {
		Name string `json:"name"`
	} `json:"album"`
	Artists struct {
		Primary []apiArtistRef `json:"primary"`
	} `json:"artists"`
	Image       []apiQualityURL `json:"image"`
	DownloadURL []apiQualityURL `json:"downloadUrl"`
}

type apiAlbum struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Artists struct {
		Primary []apiArtistRef `json:"primary"`
	} `json:"artists"`
	Image []apiQualityURL `json:"image"`
}

type apiPlaylist struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SongCount   int             `json:"songCount"`
	Image       []apiQualityURL `json:"image"`
	Songs       []apiSong       `json:"songs"`
}

type songSearchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Results []apiSong `json:"results"`
	} `json:"data"`
}

type artistSearchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Results []apiArtistRef `json:"results"`
	} `json:"data"`
}

type albumSearchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Results []apiAlbum `json:"results"`
	} `json:"data"`
}

type playlistResponse struct {
	Success bool        `json:"success"`
	Data    apiPlaylist `json:"data"`
}

type artistSongsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Songs []apiSong `json:"songs"`
	} `json:"data"`
}

// artworkURL picks the best artwork: the 500x500 rendition when present,
// else the last (largest) entry.
func artworkURL(images []apiQualityURL) string {
	if len(images) == 0 {
		return ""
	}
	if img, ok := lo.Find(images, func(i apiQualityURL) bool {
		return i.Quality == "500x500"
	}); ok {
		return img.URL
	}
	return images[len(images)-1].URL
}

// streamURL picks the stream URL for the preferred quality label,
// else the last entry. Empty when the track has no playable source.
func streamURL(urls []apiQualityURL, quality string) string {
	if len(urls) == 0 {
		return ""
	}
	if u, ok := lo.Find(urls, func(u apiQualityURL) bool {
		return u.Quality == quality
	}); ok {
		return u.URL
	}
	return urls[len(urls)-1].URL
}

func primaryArtists(refs []apiArtistRef) string {
	if len(refs) == 0 {
		return "Unknown Artist"
	}
	names := lo.Map(refs, func(a apiArtistRef, _ int) string { return a.Name })
	return strings.Join(names, ", ")
}

func (c *Client) convertSong(s apiSong) Track {
	album := s.Album.Name
	if album == "" {
		album = "Unknown Album"
	}
	return Track{
		ID:         s.ID,
		Title:      s.Name,
		Artist:     primaryArtists(s.Artists.Primary),
		Album:      album,
		ArtworkURL: artworkURL(s.Image),
		Duration:   s.Duration,
		URL:        streamURL(s.DownloadURL, c.quality),
	}
}

func (c *Client) convertSongs(songs []apiSong) []Track {
	return lo.Map(songs, func(s apiSong, _ int) Track { return c.convertSong(s) })
}

func convertArtists(artists []apiArtistRef) []Artist {
	return lo.Map(artists, func(a apiArtistRef, _ int) Artist {
		return Artist{
			ID:       a.ID,
			Name:     a.Name,
			ImageURL: artworkURL(a.Image),
		}
	})
}

func convertAlbums(albums []apiAlbum) []Album {
	return lo.Map(albums, func(a apiAlbum, _ int) Album {
		return Album{
			ID:         a.ID,
			Title:      a.Name,
			Artist:     primaryArtists(a.Artists.Primary),
			ArtworkURL: artworkURL(a.Image),
			Year:       a.Year,
		}
	})
}

func (c *Client) convertPlaylist(p apiPlaylist) Playlist {
	return Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ArtworkURL:  artworkURL(p.Image),
		SongCount:   p.SongCount,
		Songs:       c.convertSongs(p.Songs),
	}
}
