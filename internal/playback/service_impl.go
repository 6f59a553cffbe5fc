package playback

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/lyra-music/lyra/internal/catalog"
	"github.com/lyra-music/lyra/internal/engine"
	"github.com/lyra-music/lyra/internal/queue"
)

// ErrNoPlayableSource is reported when a track resolves to an empty URI.
var ErrNoPlayableSource = errors.New("no playable source for track")

const (
	// Below this position skip-previous changes track; above it, it
	// restarts the current one. Guards against accidental double-skips
	// from a near-start tap.
	restartThresholdMs = 3000

	maxRecentlyPlayed = 50
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	log      *slog.Logger
	engine   engine.Interface
	queue    *queue.Store
	resolver SourceResolver
	store    SnapshotStore // nil disables persistence

	cur        *catalog.Track
	playing    bool
	buffering  bool
	repeat     RepeatMode
	positionMs int64
	durationMs int64
	volume     float64
	recent     []string // most recent first

	// Stale-callback guard: engine callbacks for any other URI than the
	// one of the latest load are discarded.
	loadURI  string
	restored bool

	subs   []*Subscription
	subsMu sync.RWMutex
	closed bool
}

// New creates the playback service and wires itself into the engine's
// callbacks. resolver may be nil (remote sources only); store may be
// nil (no persistence).
func New(log *slog.Logger, eng engine.Interface, q *queue.Store, resolver SourceResolver, store SnapshotStore) Service {
	if resolver == nil {
		resolver = RemoteResolver{}
	}
	s := &serviceImpl{
		log:      log,
		engine:   eng,
		queue:    q,
		resolver: resolver,
		store:    store,
		volume:   1,
	}
	eng.SetCallbacks(engine.Callbacks{
		OnStatus:   s.handleStatus,
		OnFinished: s.handleFinished,
		OnError:    s.handleLoadError,
	})
	return s
}

// Play selects a track as current and starts loading it. Always a
// terminal success from the state machine's point of view; the engine's
// async outcome feeds back through the callbacks.
func (s *serviceImpl) Play(track catalog.Track) {
	s.mu.Lock()
	prev := copyTrack(s.cur)
	t := track
	s.cur = &t
	s.positionMs = 0
	s.durationMs = 0

	uri := s.resolver.Resolve(track)
	s.loadURI = uri
	if uri == "" {
		// Resolution failure: stay loaded but neither playing nor
		// buffering, so the UI can surface it.
		s.playing = false
		s.buffering = false
	} else {
		s.playing = true
		s.buffering = true
	}
	s.pushRecentLocked(track.ID)
	s.saveLocked()
	st := s.stateLocked()
	s.mu.Unlock()

	if uri == "" {
		s.engine.Unload()
		s.broadcastError(ErrorEvent{Operation: "play", TrackID: track.ID, Err: ErrNoPlayableSource})
	} else {
		s.engine.Load(uri)
	}
	s.broadcastTrack(TrackChange{Previous: prev, Current: copyTrack(&t)})
	s.broadcastState(StateChange{State: st})
}

// Toggle flips play/pause. Position is untouched.
func (s *serviceImpl) Toggle() {
	s.mu.Lock()
	if s.cur == nil {
		s.mu.Unlock()
		return
	}
	s.playing = !s.playing
	playing := s.playing
	st := s.stateLocked()
	s.mu.Unlock()

	if playing {
		s.engine.Play()
	} else {
		s.engine.Pause()
	}
	s.broadcastState(StateChange{State: st})
}

// SkipNext advances to the next track in play order. At the end of the
// queue it wraps with repeat=all, otherwise it stops with the current
// track retained.
func (s *serviceImpl) SkipNext() {
	s.mu.Lock()
	if s.cur == nil || s.queue.Len() == 0 {
		s.mu.Unlock()
		return
	}
	idx := s.queue.IndexOf(s.cur.ID)

	var next catalog.Track
	advance := false
	switch {
	case idx >= 0 && idx < s.queue.Len()-1:
		next, _ = s.queue.TrackAt(idx + 1)
		advance = true
	case s.repeat == RepeatAll:
		next, _ = s.queue.TrackAt(0)
		advance = true
	}

	if !advance {
		// End of queue: stop, keep track and position where they are.
		s.playing = false
		st := s.stateLocked()
		s.mu.Unlock()
		s.engine.Pause()
		s.broadcastState(StateChange{State: st})
		return
	}
	s.mu.Unlock()
	s.Play(next)
}

// SkipPrev restarts the current track when more than 3 seconds in,
// otherwise moves to the previous track, wrapping from the head to the
// tail.
func (s *serviceImpl) SkipPrev() {
	s.mu.Lock()
	if s.cur == nil {
		s.mu.Unlock()
		return
	}
	if s.positionMs > restartThresholdMs || s.queue.Len() == 0 {
		s.positionMs = 0
		st := s.stateLocked()
		s.mu.Unlock()
		s.engine.SeekTo(0)
		s.broadcastState(StateChange{State: st})
		return
	}

	idx := s.queue.IndexOf(s.cur.ID)
	prevIdx := idx - 1
	if prevIdx < 0 {
		prevIdx = s.queue.Len() - 1
	}
	track, _ := s.queue.TrackAt(prevIdx)
	s.mu.Unlock()
	s.Play(track)
}

// SeekTo forwards the position to the engine verbatim; the engine's
// next status report is what moves the transport position.
func (s *serviceImpl) SeekTo(ms int64) {
	s.mu.Lock()
	loaded := s.cur != nil && s.loadURI != ""
	s.mu.Unlock()
	if loaded {
		s.engine.SeekTo(ms)
	}
}

func (s *serviceImpl) SeekToFraction(f float64) {
	s.mu.Lock()
	loaded := s.cur != nil && s.loadURI != ""
	s.mu.Unlock()
	if loaded {
		s.engine.SeekToFraction(f)
	}
}

func (s *serviceImpl) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.mu.Lock()
	s.volume = v
	st := s.stateLocked()
	s.mu.Unlock()
	s.engine.SetVolume(v)
	s.broadcastState(StateChange{State: st})
}

// ToggleShuffle flips shuffle mode and reshuffles or restores the play
// order. Returns the new mode.
func (s *serviceImpl) ToggleShuffle() bool {
	s.mu.Lock()
	on := !s.queue.Shuffle()
	s.queue.SetShuffle(on, s.currentIDLocked())
	s.saveLocked()
	mode := ModeChange{Shuffle: on, Repeat: s.repeat}
	qc := s.queueChangeLocked()
	s.mu.Unlock()

	s.broadcastMode(mode)
	s.broadcastQueue(qc)
	return on
}

// CycleRepeat advances none -> one -> all -> none and returns the new
// mode.
func (s *serviceImpl) CycleRepeat() RepeatMode {
	s.mu.Lock()
	s.repeat = s.repeat.Next()
	mode := ModeChange{Shuffle: s.queue.Shuffle(), Repeat: s.repeat}
	s.saveLocked()
	s.mu.Unlock()

	s.broadcastMode(mode)
	return mode.Repeat
}

// SetQueue replaces the queue contents, reshuffling when shuffle is on.
func (s *serviceImpl) SetQueue(tracks []catalog.Track) {
	s.mu.Lock()
	s.queue.SetQueue(tracks, s.currentIDLocked())
	s.saveLocked()
	qc := s.queueChangeLocked()
	s.mu.Unlock()
	s.broadcastQueue(qc)
}

// PlayAll replaces the queue and starts the first track in play order.
func (s *serviceImpl) PlayAll(tracks []catalog.Track) {
	s.SetQueue(tracks)
	s.mu.Lock()
	first, ok := s.queue.TrackAt(0)
	s.mu.Unlock()
	if ok {
		s.Play(first)
	}
}

func (s *serviceImpl) EnqueueNext(track catalog.Track) {
	s.mu.Lock()
	changed := s.queue.EnqueueNext(track, s.currentIDLocked())
	if changed {
		s.saveLocked()
	}
	qc := s.queueChangeLocked()
	s.mu.Unlock()
	if changed {
		s.broadcastQueue(qc)
	}
}

func (s *serviceImpl) EnqueueEnd(track catalog.Track) {
	s.mu.Lock()
	changed := s.queue.EnqueueEnd(track)
	if changed {
		s.saveLocked()
	}
	qc := s.queueChangeLocked()
	s.mu.Unlock()
	if changed {
		s.broadcastQueue(qc)
	}
}

func (s *serviceImpl) Remove(trackID string) {
	s.mu.Lock()
	changed := s.queue.Remove(trackID, s.currentIDLocked())
	if changed {
		s.saveLocked()
	}
	qc := s.queueChangeLocked()
	s.mu.Unlock()
	if changed {
		s.broadcastQueue(qc)
	}
}

func (s *serviceImpl) MoveUp(trackID string) {
	s.mu.Lock()
	changed := s.queue.MoveUp(trackID, s.currentIDLocked())
	if changed {
		s.saveLocked()
	}
	qc := s.queueChangeLocked()
	s.mu.Unlock()
	if changed {
		s.broadcastQueue(qc)
	}
}

func (s *serviceImpl) MoveDown(trackID string) {
	s.mu.Lock()
	changed := s.queue.MoveDown(trackID, s.currentIDLocked())
	if changed {
		s.saveLocked()
	}
	qc := s.queueChangeLocked()
	s.mu.Unlock()
	if changed {
		s.broadcastQueue(qc)
	}
}

func (s *serviceImpl) ClearUpcoming() {
	s.mu.Lock()
	s.queue.ClearUpcoming(s.currentIDLocked())
	s.saveLocked()
	qc := s.queueChangeLocked()
	s.mu.Unlock()
	s.broadcastQueue(qc)
}

// State returns a copy of the transport state.
func (s *serviceImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *serviceImpl) QueueTracks() []catalog.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tracks()
}

func (s *serviceImpl) OriginalTracks() []catalog.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.OriginalTracks()
}

func (s *serviceImpl) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.IndexOf(s.currentIDLocked())
}

func (s *serviceImpl) RecentlyPlayed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// Restore loads the persisted snapshot and enables saves. Corrupt or
// missing data restores defaults. Playback is never auto-resumed.
func (s *serviceImpl) Restore() {
	var (
		snap Snapshot
		ok   bool
	)
	if s.store != nil {
		snap, ok = s.store.LoadSnapshot()
	}

	s.mu.Lock()
	if ok {
		s.queue.Restore(snap.Play, snap.Original, snap.Shuffle)
		s.repeat = snap.Repeat
		s.recent = snap.RecentlyPlayed
		if i := s.queue.IndexOf(snap.CurrentTrackID); i >= 0 {
			t, _ := s.queue.TrackAt(i)
			s.cur = &t
		}
		s.playing = false
		s.buffering = false
	}
	s.restored = true
	st := s.stateLocked()
	qc := s.queueChangeLocked()
	s.mu.Unlock()

	s.broadcastState(StateChange{State: st})
	s.broadcastQueue(qc)
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close shuts down the service and its subscriptions. The engine is
// owned by the caller and closed separately.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
	return nil
}

// handleStatus is the periodic engine report. The engine is the source
// of truth for position and duration once loaded; reports for a
// superseded load are discarded.
func (s *serviceImpl) handleStatus(st engine.Status) {
	s.mu.Lock()
	if s.closed || st.URI == "" || st.URI != s.loadURI {
		s.mu.Unlock()
		return
	}
	s.positionMs = st.PositionMs
	s.durationMs = st.DurationMs
	s.playing = st.Playing
	s.buffering = st.Buffering
	out := s.stateLocked()
	s.mu.Unlock()

	s.broadcastState(StateChange{State: out})
}

// handleFinished fires on natural end of track. repeat=one loops the
// same track; anything else advances like SkipNext.
func (s *serviceImpl) handleFinished(uri string) {
	s.mu.Lock()
	if s.closed || uri == "" || uri != s.loadURI {
		s.mu.Unlock()
		return
	}
	if s.repeat == RepeatOne {
		s.positionMs = 0
		s.playing = true
		st := s.stateLocked()
		s.mu.Unlock()
		s.engine.SeekTo(0)
		s.engine.Play()
		s.broadcastState(StateChange{State: st})
		return
	}
	s.mu.Unlock()
	s.SkipNext()
}

// handleLoadError flips the transport out of buffering without touching
// the current track. Not persisted: the snapshot only ever carries
// steady-state fields.
func (s *serviceImpl) handleLoadError(uri string, err error) {
	s.mu.Lock()
	if s.closed || uri != s.loadURI {
		s.mu.Unlock()
		return
	}
	s.playing = false
	s.buffering = false
	trackID := s.currentIDLocked()
	st := s.stateLocked()
	s.mu.Unlock()

	s.log.Warn("playback load failed", "track", trackID, "error", err)
	s.broadcastError(ErrorEvent{Operation: "play", TrackID: trackID, Err: err})
	s.broadcastState(StateChange{State: st})
}

func (s *serviceImpl) currentIDLocked() string {
	if s.cur == nil {
		return ""
	}
	return s.cur.ID
}

func (s *serviceImpl) stateLocked() State {
	return State{
		CurrentTrack: copyTrack(s.cur),
		Playing:      s.playing,
		Buffering:    s.buffering,
		Shuffle:      s.queue.Shuffle(),
		Repeat:       s.repeat,
		PositionMs:   s.positionMs,
		DurationMs:   s.durationMs,
		Volume:       s.volume,
	}
}

func (s *serviceImpl) queueChangeLocked() QueueChange {
	return QueueChange{
		Tracks: s.queue.Tracks(),
		Index:  s.queue.IndexOf(s.currentIDLocked()),
	}
}

// saveLocked snapshots queue + transport state. Fire-and-forget: the
// store logs failures itself. Disabled until Restore has run so startup
// defaults never overwrite durable state.
func (s *serviceImpl) saveLocked() {
	if !s.restored || s.store == nil {
		return
	}
	recent := make([]string, len(s.recent))
	copy(recent, s.recent)
	s.store.SaveSnapshot(Snapshot{
		Play:           s.queue.Tracks(),
		Original:       s.queue.OriginalTracks(),
		CurrentTrackID: s.currentIDLocked(),
		Shuffle:        s.queue.Shuffle(),
		Repeat:         s.repeat,
		RecentlyPlayed: recent,
	})
}

func (s *serviceImpl) pushRecentLocked(id string) {
	out := make([]string, 0, len(s.recent)+1)
	out = append(out, id)
	for _, r := range s.recent {
		if r != id {
			out = append(out, r)
		}
	}
	if len(out) > maxRecentlyPlayed {
		out = out[:maxRecentlyPlayed]
	}
	s.recent = out
}

func copyTrack(t *catalog.Track) *catalog.Track {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (s *serviceImpl) broadcastTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *serviceImpl) broadcastState(e StateChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(e)
	}
}

func (s *serviceImpl) broadcastQueue(e QueueChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendQueue(e)
	}
}

func (s *serviceImpl) broadcastMode(e ModeChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(e)
	}
}

func (s *serviceImpl) broadcastError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
