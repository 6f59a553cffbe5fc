package engine

import "sync"

// Mock is a scriptable test double for the engine. Tests drive the
// asynchronous callbacks explicitly via the Emit helpers.
type Mock struct {
	mu        sync.Mutex
	cb        Callbacks
	loadCalls []string
	playCalls int
	pauseCalls int
	seekCalls []int64
	unloads   int
	volume    float64
}

// NewMock creates a mock engine.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Load(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, uri)
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
}

func (m *Mock) SeekTo(ms int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, ms)
}

func (m *Mock) SeekToFraction(_ float64) {}

func (m *Mock) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
}

func (m *Mock) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unloads++
}

func (m *Mock) SetCallbacks(cb Callbacks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cb = cb
}

func (m *Mock) Close() error { return nil }

// Test helpers

// EmitStatus delivers a status report as the engine would.
func (m *Mock) EmitStatus(st Status) {
	m.mu.Lock()
	cb := m.cb
	m.mu.Unlock()
	if cb.OnStatus != nil {
		cb.OnStatus(st)
	}
}

// EmitFinished signals natural end of track for the given URI.
func (m *Mock) EmitFinished(uri string) {
	m.mu.Lock()
	cb := m.cb
	m.mu.Unlock()
	if cb.OnFinished != nil {
		cb.OnFinished(uri)
	}
}

// EmitError signals a failed load for the given URI.
func (m *Mock) EmitError(uri string, err error) {
	m.mu.Lock()
	cb := m.cb
	m.mu.Unlock()
	if cb.OnError != nil {
		cb.OnError(uri, err)
	}
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.loadCalls))
	copy(out, m.loadCalls)
	return out
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) SeekCalls() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.seekCalls))
	copy(out, m.seekCalls)
	return out
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
