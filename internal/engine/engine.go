// Package engine defines the audio playback engine boundary. The
// transport treats the engine as an opaque collaborator: it issues
// load/play/pause/seek commands and receives asynchronous status and
// finished callbacks at the engine's own cadence.
package engine

// Status is a periodic report from the engine. Once a load has
// succeeded the engine is the source of truth for position and
// duration.
type Status struct {
	URI        string // the loaded resource this report refers to
	PositionMs int64
	DurationMs int64
	Playing    bool
	Buffering  bool
}

// Callbacks receive asynchronous engine events. All callbacks may be
// invoked from the engine's own goroutine.
type Callbacks struct {
	OnStatus   func(Status)
	OnFinished func(uri string)        // natural end of track
	OnError    func(uri string, err error) // load or decode failure
}

// Interface is the engine contract for dependency injection and testing.
type Interface interface {
	// Load starts an asynchronous load of the resource and begins
	// playback once ready. A load in flight for a previous URI is
	// abandoned. Outcome is reported through the callbacks.
	Load(uri string)
	Play()
	Pause()
	SeekTo(ms int64)
	SeekToFraction(f float64)
	SetVolume(v float64)
	Unload()
	SetCallbacks(cb Callbacks)
	Close() error
}
