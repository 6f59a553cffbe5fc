// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpSearchSongs   Op = "search songs"
	OpSearchArtists Op = "search artists"
	OpSearchAlbums  Op = "search albums"
	OpHomeLoad      Op = "load home feed"
	OpPlaylistLoad  Op = "load playlist"
	OpArtistLoad    Op = "load artist songs"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"

	// Queue operations
	OpQueueLoad Op = "restore player state"
	OpQueueSave Op = "save player state"
	OpQueueAdd  Op = "add to queue"

	// Download operations
	OpDownloadStart  Op = "start download"
	OpDownloadDelete Op = "delete download"
	OpDownloadList   Op = "list downloads"

	// Favorites
	OpFavoriteToggle Op = "update favorites"
	OpFavoriteList   Op = "list favorites"

	// Search history
	OpSearchSave  Op = "save search history"
	OpSearchClear Op = "clear search history"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
