package playback

import "github.com/lyra-music/lyra/internal/catalog"

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatOne
	RepeatAll
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatNone:
		return "None"
	case RepeatOne:
		return "One"
	case RepeatAll:
		return "All"
	default:
		return "Unknown"
	}
}

// Next cycles none -> one -> all -> none.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatNone
	}
}

// State is the transport state exposed to the UI. It is a value copy;
// mutating it has no effect on the service.
type State struct {
	CurrentTrack *catalog.Track // nil when nothing is loaded
	Playing      bool
	Buffering    bool
	Shuffle      bool
	Repeat       RepeatMode
	PositionMs   int64
	DurationMs   int64 // 0 until the engine reports it
	Volume       float64
}

// Progress returns the playback position as a fraction of the duration,
// 0 when the duration is not yet known.
func (s State) Progress() float64 {
	if s.DurationMs <= 0 {
		return 0
	}
	return float64(s.PositionMs) / float64(s.DurationMs)
}
