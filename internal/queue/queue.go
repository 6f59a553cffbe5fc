// Package queue implements the playback queue with its two orderings:
// the insertion-order sequence and the play-order sequence consumed by
// the transport. When shuffle is off both are identical; when shuffle is
// on the play order is a permutation of the insertion order.
package queue

import (
	"math/rand/v2"

	"github.com/lyra-music/lyra/internal/catalog"
)

// Store holds the ordered list of tracks eligible for playback.
// It is not safe for concurrent use; the owning service serializes access.
type Store struct {
	original []catalog.Track // insertion order, basis for unshuffle
	play     []catalog.Track // order consumed by the transport
	shuffle  bool
}

// New creates an empty queue.
func New() *Store {
	return &Store{}
}

// Len returns the number of tracks in the queue.
func (s *Store) Len() int {
	return len(s.play)
}

// Shuffle reports whether shuffle mode is on.
func (s *Store) Shuffle() bool {
	return s.shuffle
}

// Tracks returns a copy of the play-order sequence.
func (s *Store) Tracks() []catalog.Track {
	out := make([]catalog.Track, len(s.play))
	copy(out, s.play)
	return out
}

// OriginalTracks returns a copy of the insertion-order sequence.
func (s *Store) OriginalTracks() []catalog.Track {
	out := make([]catalog.Track, len(s.original))
	copy(out, s.original)
	return out
}

// IndexOf returns the play-order index of a track id, or -1.
func (s *Store) IndexOf(id string) int {
	return indexOf(s.play, id)
}

// TrackAt returns the track at the given play-order index.
func (s *Store) TrackAt(i int) (catalog.Track, bool) {
	if i < 0 || i >= len(s.play) {
		return catalog.Track{}, false
	}
	return s.play[i], true
}

// Contains reports whether a track id is in the queue.
func (s *Store) Contains(id string) bool {
	return indexOf(s.play, id) >= 0
}

// SetQueue replaces the queue contents. Duplicate ids are dropped,
// keeping the first occurrence. With shuffle on, the play order is a
// fresh permutation with currentID pinned to the head when present.
func (s *Store) SetQueue(tracks []catalog.Track, currentID string) {
	s.original = dedupe(tracks)
	if s.shuffle {
		s.play = shuffled(s.original, currentID)
	} else {
		s.play = copyTracks(s.original)
	}
}

// EnqueueNext inserts a track right after the current track in both
// orderings. Appends when there is no current track. Returns false if
// the track is already queued.
func (s *Store) EnqueueNext(t catalog.Track, currentID string) bool {
	if s.Contains(t.ID) {
		return false
	}
	s.original = insertAfter(s.original, t, currentID)
	s.play = insertAfter(s.play, t, currentID)
	return true
}

// EnqueueEnd appends a track to both orderings. Returns false if the
// track is already queued.
func (s *Store) EnqueueEnd(t catalog.Track) bool {
	if s.Contains(t.ID) {
		return false
	}
	s.original = append(s.original, t)
	s.play = append(s.play, t)
	return true
}

// Remove deletes a track from both orderings. Removing the current
// track is a no-op. Returns false when nothing changed.
func (s *Store) Remove(id, currentID string) bool {
	if id == currentID {
		return false
	}
	i := indexOf(s.play, id)
	if i < 0 {
		return false
	}
	s.play = append(s.play[:i], s.play[i+1:]...)
	if j := indexOf(s.original, id); j >= 0 {
		s.original = append(s.original[:j], s.original[j+1:]...)
	}
	return true
}

// MoveUp swaps a track with its predecessor in the play order.
// A track may not move to or above the current track's position, so
// already-played history keeps its order. No-op at the top boundary.
func (s *Store) MoveUp(id, currentID string) bool {
	i := indexOf(s.play, id)
	if i <= 0 {
		return false
	}
	cur := indexOf(s.play, currentID)
	if i-1 <= cur {
		return false
	}
	s.play[i-1], s.play[i] = s.play[i], s.play[i-1]
	return true
}

// MoveDown swaps a track with its successor in the play order.
// No-op at the bottom boundary and for the current track.
func (s *Store) MoveDown(id, currentID string) bool {
	if id == currentID {
		return false
	}
	i := indexOf(s.play, id)
	if i < 0 || i >= len(s.play)-1 {
		return false
	}
	s.play[i], s.play[i+1] = s.play[i+1], s.play[i]
	return true
}

// ClearUpcoming truncates the play order to the current track and
// everything before it, then resyncs the insertion order to the same
// membership. Empties the queue when there is no current track.
func (s *Store) ClearUpcoming(currentID string) {
	ci := indexOf(s.play, currentID)
	if ci < 0 {
		s.play = nil
		s.original = nil
		return
	}
	s.play = s.play[:ci+1]

	kept := make(map[string]struct{}, len(s.play))
	for _, t := range s.play {
		kept[t.ID] = struct{}{}
	}
	filtered := s.original[:0]
	for _, t := range s.original {
		if _, ok := kept[t.ID]; ok {
			filtered = append(filtered, t)
		}
	}
	s.original = filtered
}

// SetShuffle turns shuffle mode on or off. On: the play order becomes a
// fresh permutation of the insertion order with the current track at the
// head. Off: the insertion order is restored verbatim.
func (s *Store) SetShuffle(on bool, currentID string) {
	if on == s.shuffle {
		return
	}
	s.shuffle = on
	if on {
		s.play = shuffled(s.original, currentID)
	} else {
		s.play = copyTracks(s.original)
	}
}

// Restore replaces both orderings from a persisted snapshot without
// reshuffling.
func (s *Store) Restore(play, original []catalog.Track, shuffle bool) {
	s.play = copyTracks(play)
	s.original = copyTracks(original)
	s.shuffle = shuffle
}

func indexOf(tracks []catalog.Track, id string) int {
	if id == "" {
		return -1
	}
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func copyTracks(tracks []catalog.Track) []catalog.Track {
	out := make([]catalog.Track, len(tracks))
	copy(out, tracks)
	return out
}

func dedupe(tracks []catalog.Track) []catalog.Track {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]catalog.Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func insertAfter(tracks []catalog.Track, t catalog.Track, currentID string) []catalog.Track {
	i := indexOf(tracks, currentID)
	if i < 0 {
		return append(tracks, t)
	}
	out := append(tracks[:i+1:i+1], t)
	return append(out, tracks[i+1:]...)
}

// shuffled returns a Fisher-Yates permutation of tracks with currentID
// pinned to index 0 when present.
func shuffled(tracks []catalog.Track, currentID string) []catalog.Track {
	out := copyTracks(tracks)
	rest := out
	if i := indexOf(out, currentID); i >= 0 {
		out[0], out[i] = out[i], out[0]
		rest = out[1:]
	}
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	return out
}
