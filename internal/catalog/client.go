// Package catalog provides access to the remote song catalog API.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	// DefaultBaseURL is used when the config does not override it.
	DefaultBaseURL = "https://saavn.sumit.co/api"

	userAgent = "Lyra/0.1 (https://github.com/lyra-music/lyra)"

	songPageLimit  = 50
	albumPageLimit = 25
)

// Client provides access to the catalog API.
type Client struct {
	baseURL    string
	quality    string // preferred stream quality label, e.g. "160kbps"
	httpClient *http.Client
}

// NewClient creates a catalog client. Empty baseURL or quality fall back
// to DefaultBaseURL and "160kbps".
func NewClient(baseURL, quality string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if quality == "" {
		quality = "160kbps"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		quality:    quality,
		httpClient: httpClient,
	}
}

// SearchSongs searches the catalog for tracks matching the query.
func (c *Client) SearchSongs(query string) ([]Track, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("limit", fmt.Sprint(songPageLimit))

	var result songSearchResponse
	if err := c.getJSON("/search/songs", params, &result); err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	return c.convertSongs(result.Data.Results), nil
}

// SearchArtists searches the catalog for artists matching the query.
func (c *Client) SearchArtists(query string) ([]Artist, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("limit", fmt.Sprint(songPageLimit))

	var result artistSearchResponse
	if err := c.getJSON("/search/artists", params, &result); err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	return convertArtists(result.Data.Results), nil
}

// SearchAlbums searches the catalog for albums matching the query.
func (c *Client) SearchAlbums(query string) ([]Album, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("limit", fmt.Sprint(albumPageLimit))

	var result albumSearchResponse
	if err := c.getJSON("/search/albums", params, &result); err != nil {
		return nil, fmt.Errorf("search albums: %w", err)
	}
	return convertAlbums(result.Data.Results), nil
}

// GetPlaylist fetches a playlist by its share URL or id.
func (c *Client) GetPlaylist(link string) (*Playlist, error) {
	params := url.Values{}
	params.Set("link", link)

	var result playlistResponse
	if err := c.getJSON("/playlists", params, &result); err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("get playlist: not found")
	}
	p := c.convertPlaylist(result.Data)
	return &p, nil
}

// GetArtistSongs fetches the songs of an artist by catalog id.
func (c *Client) GetArtistSongs(artistID string) ([]Track, error) {
	params := url.Values{}
	params.Set("page", "0")
	params.Set("sortBy", "popularity")

	var result artistSongsResponse
	path := fmt.Sprintf("/artists/%s/songs", url.PathEscape(artistID))
	if err := c.getJSON(path, params, &result); err != nil {
		return nil, fmt.Errorf("get artist songs: %w", err)
	}
	return c.convertSongs(result.Data.Songs), nil
}

// GetHome fetches the default browse sections in parallel.
func (c *Client) GetHome() (*Home, error) {
	type songsRes struct {
		songs []Track
		err   error
	}
	type artistsRes struct {
		artists []Artist
		err     error
	}
	type albumsRes struct {
		albums []Album
		err    error
	}

	songsCh := make(chan songsRes, 1)
	artistsCh := make(chan artistsRes, 1)
	albumsCh := make(chan albumsRes, 1)

	go func() {
		s, err := c.SearchSongs("trending")
		songsCh <- songsRes{s, err}
	}()
	go func() {
		a, err := c.SearchArtists("new")
		artistsCh <- artistsRes{a, err}
	}()
	go func() {
		a, err := c.SearchAlbums("latest")
		albumsCh <- albumsRes{a, err}
	}()

	s := <-songsCh
	ar := <-artistsCh
	al := <-albumsCh
	if s.err != nil {
		return nil, s.err
	}
	if ar.err != nil {
		return nil, ar.err
	}
	if al.err != nil {
		return nil, al.err
	}
	return &Home{Songs: s.songs, Artists: ar.artists, Albums: al.albums}, nil
}

// getJSON performs a GET request against the API and decodes the response.
func (c *Client) getJSON(path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequest(http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
