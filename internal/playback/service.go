// Package playback owns the transport state machine: current track,
// play/pause, shuffle and repeat modes, playback position, and the
// skip/advance algorithms over the queue. All mutations are synchronous
// in-memory transitions; the audio engine and the persistence layer are
// collaborators behind small interfaces.
package playback

import "github.com/lyra-music/lyra/internal/catalog"

// Service is the queue + transport contract the UI talks to. Operations
// never return errors toward the caller: failures surface through state
// fields and the error event channel.
type Service interface {
	// Transport control
	Play(track catalog.Track)
	Toggle()
	SkipNext()
	SkipPrev()
	SeekTo(ms int64)
	SeekToFraction(f float64)
	SetVolume(v float64)
	ToggleShuffle() bool
	CycleRepeat() RepeatMode

	// Queue manipulation
	SetQueue(tracks []catalog.Track)
	PlayAll(tracks []catalog.Track) // SetQueue + Play first track
	EnqueueNext(track catalog.Track)
	EnqueueEnd(track catalog.Track)
	Remove(trackID string)
	MoveUp(trackID string)
	MoveDown(trackID string)
	ClearUpcoming()

	// Queries
	State() State
	QueueTracks() []catalog.Track
	OriginalTracks() []catalog.Track
	CurrentIndex() int
	RecentlyPlayed() []string

	// Lifecycle
	Restore() // load the persisted snapshot, then enable saves
	Subscribe() *Subscription
	Close() error
}

// Snapshot is the durable projection of queue + transport state.
// Ephemeral fields (position, buffering, isPlaying) are excluded.
type Snapshot struct {
	Play           []catalog.Track
	Original       []catalog.Track
	CurrentTrackID string
	Shuffle        bool
	Repeat         RepeatMode
	RecentlyPlayed []string
}

// SnapshotStore persists snapshots. Saves are fire-and-forget: the
// implementation logs failures and never reports them back. Load
// returns ok=false when no usable snapshot exists, including when the
// stored data is corrupt.
type SnapshotStore interface {
	SaveSnapshot(Snapshot)
	LoadSnapshot() (Snapshot, bool)
}

// SourceResolver picks the playable URI for a track, preferring a
// completed local download over the remote stream URL.
type SourceResolver interface {
	Resolve(track catalog.Track) string
}

// RemoteResolver always plays the remote stream URL. Used when no
// download manager is wired in.
type RemoteResolver struct{}

func (RemoteResolver) Resolve(track catalog.Track) string { return track.URL }
