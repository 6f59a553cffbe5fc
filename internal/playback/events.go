package playback

import "github.com/lyra-music/lyra/internal/catalog"

// TrackChange is emitted when the current track changes.
type TrackChange struct {
	Previous *catalog.Track
	Current  *catalog.Track
}

// StateChange is emitted on every transport state update, including the
// periodic position reports from the engine.
type StateChange struct {
	State State
}

// QueueChange is emitted when the queue contents or order change.
type QueueChange struct {
	Tracks []catalog.Track
	Index  int // play-order index of the current track, -1 if none
}

// ModeChange is emitted when shuffle or repeat mode changes.
type ModeChange struct {
	Shuffle bool
	Repeat  RepeatMode
}

// ErrorEvent is emitted when an operation fails. Failures never abort
// the transport; they surface here and through the state fields.
type ErrorEvent struct {
	Operation string // e.g. "play", "download"
	TrackID   string
	Err       error
}
