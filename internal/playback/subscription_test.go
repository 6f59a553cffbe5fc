package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscription_DeliversBufferedEvents(t *testing.T) {
	sub := newSubscription()

	sub.sendState(StateChange{State: State{Playing: true}})
	sub.sendMode(ModeChange{Shuffle: true, Repeat: RepeatAll})

	e := <-sub.StateChanged
	require.True(t, e.State.Playing)

	m := <-sub.ModeChanged
	assert.True(t, m.Shuffle)
	assert.Equal(t, RepeatAll, m.Repeat)
}

func TestSubscription_DropsWhenBufferFull(t *testing.T) {
	sub := newSubscription()

	// A slow subscriber must never block the transport; events past the
	// buffer are dropped.
	for i := 0; i < eventBufferSize*2; i++ {
		sub.sendState(StateChange{State: State{PositionMs: int64(i)}})
	}

	require.Len(t, sub.StateChanged, eventBufferSize)
}

func TestSubscription_CloseSignalsDone(t *testing.T) {
	sub := newSubscription()
	sub.close()

	select {
	case <-sub.Done:
	default:
		t.Fatal("Done channel not closed")
	}

	// Sending after close must not panic or block.
	sub.sendState(StateChange{})
}
