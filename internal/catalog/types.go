package catalog

// Track is a playable song from the catalog.
// Immutable once fetched, except for the Favorite flag.
type Track struct {
	ID         string
	Title      string
	Artist     string // primary artist names joined with ", "
	Album      string
	ArtworkURL string
	Duration   int    // seconds
	URL        string // stream/download URL at the selected quality
	Favorite   bool
}

// Artist is a catalog artist entry.
type Artist struct {
	ID       string
	Name     string
	ImageURL string
}

// Album is a catalog album entry.
type Album struct {
	ID         string
	Title      string
	Artist     string
	ArtworkURL string
	Year       int
}

// Playlist is a catalog playlist with its resolved tracks.
type Playlist struct {
	ID          string
	Name        string
	Description string
	ArtworkURL  string
	SongCount   int
	Songs       []Track
}

// Home aggregates the default browse sections.
type Home struct {
	Songs   []Track
	Artists []Artist
	Albums  []Album
}
