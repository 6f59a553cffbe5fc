package engine

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

const statusInterval = 500 * time.Millisecond

// Beep plays mp3 resources (local files or HTTP URLs) through the beep
// speaker. Loads are asynchronous; a newer Load abandons any load still
// in flight.
type Beep struct {
	mu sync.Mutex
	cb Callbacks

	gen         uint64 // bumped on every Load/Unload, stale loads check it
	uri         string
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	volumeLevel float64
	out         beep.Streamer // full chain handed to the speaker
	drained     bool          // speaker queue ran out after natural finish
	body        io.Closer     // HTTP response body when streaming remote

	speakerRate  beep.SampleRate
	speakerReady bool
	stopStatus   chan struct{}
	closed       bool
}

// NewBeep creates the beep-backed engine.
func NewBeep() *Beep {
	return &Beep{volumeLevel: 1}
}

func (b *Beep) SetCallbacks(cb Callbacks) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cb = cb
}

// Load starts fetching and decoding the resource in the background.
func (b *Beep) Load(uri string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.gen++
	myGen := b.gen
	b.mu.Unlock()

	go b.load(myGen, uri)
}

func (b *Beep) load(myGen uint64, uri string) {
	rc, err := openSource(uri)
	if err != nil {
		b.reportLoadError(myGen, uri, err)
		return
	}

	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		rc.Close()
		b.reportLoadError(myGen, uri, fmt.Errorf("decode mp3: %w", err))
		return
	}

	b.mu.Lock()
	if b.closed || b.gen != myGen {
		// Superseded by a newer load: abandon, don't report.
		b.mu.Unlock()
		streamer.Close()
		rc.Close()
		return
	}

	b.teardownLocked()

	if !b.speakerReady {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			b.mu.Unlock()
			streamer.Close()
			rc.Close()
			b.reportLoadError(myGen, uri, fmt.Errorf("init speaker: %w", err))
			return
		}
		b.speakerRate = format.SampleRate
		b.speakerReady = true
	}

	b.uri = uri
	b.streamer = streamer
	b.format = format
	b.body = rc
	b.ctrl = &beep.Ctrl{Streamer: streamer}
	b.volume = &effects.Volume{
		Streamer: b.ctrl,
		Base:     2,
		Volume:   levelToVolume(b.volumeLevel),
		Silent:   b.volumeLevel <= 0,
	}

	var out beep.Streamer = b.volume
	if format.SampleRate != b.speakerRate {
		out = beep.Resample(4, format.SampleRate, b.speakerRate, b.volume)
	}
	b.out = out
	b.drained = false

	b.stopStatus = make(chan struct{})
	go b.statusLoop(myGen, b.stopStatus)

	speaker.Play(b.sequence(myGen, uri))
	b.mu.Unlock()

	b.emitStatus(myGen)
}

func (b *Beep) reportLoadError(myGen uint64, uri string, err error) {
	b.mu.Lock()
	stale := b.closed || b.gen != myGen
	cb := b.cb
	b.mu.Unlock()
	if stale || cb.OnError == nil {
		return
	}
	cb.OnError(uri, err)
}

// sequence wraps the output chain with the finished callback. The
// callback runs on the speaker goroutine under the speaker lock, so all
// state changes are handed off to a fresh goroutine.
func (b *Beep) sequence(myGen uint64, uri string) beep.Streamer {
	return beep.Seq(b.out, beep.Callback(func() {
		go func() {
			b.markDrained(myGen)
			b.finished(myGen, uri)
		}()
	}))
}

func (b *Beep) markDrained(myGen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen == myGen {
		b.drained = true
	}
}

// resubmitLocked re-queues the stream chain after a natural finish so a
// seek-to-start can replay the same track. Caller holds b.mu.
func (b *Beep) resubmitLocked() {
	if !b.drained || b.out == nil {
		return
	}
	b.drained = false
	speaker.Play(b.sequence(b.gen, b.uri))
}

func (b *Beep) finished(myGen uint64, uri string) {
	b.mu.Lock()
	stale := b.closed || b.gen != myGen
	cb := b.cb
	b.mu.Unlock()
	if stale || cb.OnFinished == nil {
		return
	}
	cb.OnFinished(uri)
}

func (b *Beep) statusLoop(myGen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.emitStatus(myGen)
		}
	}
}

func (b *Beep) emitStatus(myGen uint64) {
	b.mu.Lock()
	if b.closed || b.gen != myGen || b.streamer == nil {
		b.mu.Unlock()
		return
	}

	speaker.Lock()
	pos := b.streamer.Position()
	length := b.streamer.Len()
	paused := b.ctrl.Paused
	speaker.Unlock()

	st := Status{
		URI:        b.uri,
		PositionMs: b.format.SampleRate.D(pos).Milliseconds(),
		Playing:    !paused,
	}
	if length > 0 {
		st.DurationMs = b.format.SampleRate.D(length).Milliseconds()
	}
	cb := b.cb
	b.mu.Unlock()

	if cb.OnStatus != nil {
		cb.OnStatus(st)
	}
}

func (b *Beep) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
	b.resubmitLocked()
}

func (b *Beep) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
}

func (b *Beep) SeekTo(ms int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return
	}
	n := b.format.SampleRate.N(time.Duration(ms) * time.Millisecond)
	speaker.Lock()
	// Network-backed streams may not support seeking; best effort.
	_ = b.streamer.Seek(n)
	speaker.Unlock()
	b.resubmitLocked()
}

func (b *Beep) SeekToFraction(f float64) {
	b.mu.Lock()
	length := 0
	if b.streamer != nil {
		speaker.Lock()
		length = b.streamer.Len()
		speaker.Unlock()
	}
	b.mu.Unlock()
	if length <= 0 {
		return
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	b.mu.Lock()
	if b.streamer != nil {
		speaker.Lock()
		_ = b.streamer.Seek(int(f * float64(length)))
		speaker.Unlock()
	}
	b.mu.Unlock()
}

func (b *Beep) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volumeLevel = v
	if b.volume == nil {
		return
	}
	speaker.Lock()
	b.volume.Volume = levelToVolume(v)
	b.volume.Silent = v <= 0
	speaker.Unlock()
}

func (b *Beep) Unload() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.teardownLocked()
}

func (b *Beep) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.gen++
	b.teardownLocked()
	return nil
}

// teardownLocked stops the status loop and releases the current stream.
// Caller holds b.mu.
func (b *Beep) teardownLocked() {
	if b.stopStatus != nil {
		close(b.stopStatus)
		b.stopStatus = nil
	}
	if b.speakerReady {
		speaker.Clear()
	}
	if b.streamer != nil {
		b.streamer.Close()
		b.streamer = nil
	}
	if b.body != nil {
		b.body.Close()
		b.body = nil
	}
	b.ctrl = nil
	b.volume = nil
	b.out = nil
	b.drained = false
	b.uri = ""
}

// openSource opens a local file or an HTTP resource for streaming.
func openSource(uri string) (io.ReadCloser, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		resp, err := http.Get(uri)
		if err != nil {
			return nil, fmt.Errorf("fetch stream: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch stream: status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}
	f, err := os.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// levelToVolume converts a 0.0-1.0 level to beep's logarithmic Volume
// value: 1.0 -> 0, 0.5 -> -1, 0.25 -> -2.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

// Verify Beep implements Interface at compile time.
var _ Interface = (*Beep)(nil)
