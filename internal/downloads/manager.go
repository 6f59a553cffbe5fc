package downloads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lyra-music/lyra/internal/catalog"
)

// ErrNoSource is returned synchronously when a track has no stream
// URL to fetch.
var ErrNoSource = errors.New("track has no downloadable source")

// Record is a completed download as persisted by the Store.
type Record struct {
	Track       catalog.Track
	Path        string
	SizeBytes   int64
	CompletedAt time.Time
}

// Store persists completed download records across restarts.
type Store interface {
	SaveDownload(Record) error
	DeleteDownload(trackID string) error
	ListDownloads() ([]Record, error)
}

// Progress reports an in-flight transfer. Entries exist only while the
// transfer runs; terminal transfers disappear from the progress map.
type Progress struct {
	TrackID    string
	Received   int64
	TotalBytes int64
}

// Fraction returns completion in [0,1], or 0 when the total is unknown.
func (p Progress) Fraction() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	return float64(p.Received) / float64(p.TotalBytes)
}

type transfer struct {
	cancel context.CancelFunc
	prog   Progress
}

// Manager downloads tracks for offline playback, one transfer per
// track id, and resolves local files over remote URLs.
type Manager struct {
	mu       sync.Mutex
	log      *slog.Logger
	dir      string
	client   *http.Client
	store    Store
	inflight map[string]*transfer
	records  map[string]Record

	onProgress func(Progress)
	onComplete func(trackID string, err error)
}

// NewManager creates the manager, ensures the download directory
// exists and reconciles persisted records against the files actually
// on disk. Records whose file is gone are dropped.
func NewManager(log *slog.Logger, dir string, client *http.Client, store Store) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	if client == nil {
		client = &http.Client{}
	}
	m := &Manager{
		log:      log,
		dir:      dir,
		client:   client,
		store:    store,
		inflight: make(map[string]*transfer),
		records:  make(map[string]Record),
	}

	if store != nil {
		recs, err := store.ListDownloads()
		if err != nil {
			return nil, fmt.Errorf("list downloads: %w", err)
		}
		for _, rec := range recs {
			if _, err := os.Stat(rec.Path); err != nil {
				log.Warn("downloaded file missing, dropping record", "track", rec.Track.ID, "path", rec.Path)
				if err := store.DeleteDownload(rec.Track.ID); err != nil {
					log.Warn("failed to drop stale download record", "track", rec.Track.ID, "error", err)
				}
				continue
			}
			m.records[rec.Track.ID] = rec
		}
	}
	return m, nil
}

// SetProgressFunc registers a callback invoked on transfer progress.
func (m *Manager) SetProgressFunc(fn func(Progress)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress = fn
}

// SetCompleteFunc registers a callback invoked when a transfer ends,
// with a nil error on success.
func (m *Manager) SetCompleteFunc(fn func(trackID string, err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onComplete = fn
}

// Start begins downloading a track. Tracks without a source are
// rejected synchronously. Re-requesting a completed download is a
// no-op returning the existing record; a track already in flight is a
// no-op so a double tap never spawns a second transfer.
func (m *Manager) Start(ctx context.Context, track catalog.Track) (*Record, error) {
	if track.URL == "" {
		return nil, ErrNoSource
	}

	m.mu.Lock()
	if rec, ok := m.records[track.ID]; ok {
		m.mu.Unlock()
		return &rec, nil
	}
	if _, ok := m.inflight[track.ID]; ok {
		m.mu.Unlock()
		return nil, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	m.inflight[track.ID] = &transfer{
		cancel: cancel,
		prog:   Progress{TrackID: track.ID},
	}
	m.mu.Unlock()

	go m.run(ctx, track)
	return nil, nil
}

// Cancel aborts an in-flight transfer. Completed downloads are
// untouched.
func (m *Manager) Cancel(trackID string) {
	m.mu.Lock()
	tr, ok := m.inflight[trackID]
	m.mu.Unlock()
	if ok {
		tr.cancel()
	}
}

// Progress returns the in-flight progress for a track. The second
// return is false once the transfer has reached a terminal state.
func (m *Manager) Progress(trackID string) (Progress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.inflight[trackID]
	if !ok {
		return Progress{}, false
	}
	return tr.prog, true
}

// InFlight returns progress for every running transfer.
func (m *Manager) InFlight() []Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Progress, 0, len(m.inflight))
	for _, tr := range m.inflight {
		out = append(out, tr.prog)
	}
	return out
}

// IsDownloaded reports whether the track is available locally.
func (m *Manager) IsDownloaded(trackID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[trackID]
	return ok
}

// LocalPath returns the on-disk path for a downloaded track.
func (m *Manager) LocalPath(trackID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[trackID]
	if !ok {
		return "", false
	}
	return rec.Path, true
}

// List returns all completed downloads.
func (m *Manager) List() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out
}

// Remove deletes a downloaded file and its record.
func (m *Manager) Remove(trackID string) error {
	m.mu.Lock()
	rec, ok := m.records[trackID]
	if ok {
		delete(m.records, trackID)
	}
	m.mu.Unlock()
	if !ok {
		return nil
	}

	if err := os.Remove(rec.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove downloaded file: %w", err)
	}
	if m.store != nil {
		if err := m.store.DeleteDownload(trackID); err != nil {
			return fmt.Errorf("delete download record: %w", err)
		}
	}
	return nil
}

// Resolve prefers the local file over the remote URL, so offline
// tracks play without touching the network.
func (m *Manager) Resolve(track catalog.Track) string {
	if path, ok := m.LocalPath(track.ID); ok {
		return path
	}
	return track.URL
}

func (m *Manager) run(ctx context.Context, track catalog.Track) {
	err := m.fetch(ctx, track)

	m.mu.Lock()
	delete(m.inflight, track.ID)
	onComplete := m.onComplete
	m.mu.Unlock()

	if err != nil {
		m.log.Warn("download failed", "track", track.ID, "error", err)
	} else {
		m.log.Info("download complete", "track", track.ID, "title", track.Title)
	}
	if onComplete != nil {
		onComplete(track.ID, err)
	}
}

func (m *Manager) fetch(ctx context.Context, track catalog.Track) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch track: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch track: unexpected status %d", resp.StatusCode)
	}

	final := m.trackPath(track.ID)
	partial := final + ".part"
	f, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("create partial file: %w", err)
	}

	written, err := io.Copy(f, m.progressReader(resp.Body, track.ID, resp.ContentLength))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(partial)
		return fmt.Errorf("write track data: %w", err)
	}
	if err := os.Rename(partial, final); err != nil {
		os.Remove(partial)
		return fmt.Errorf("finalize download: %w", err)
	}

	rec := Record{
		Track:       track,
		Path:        final,
		SizeBytes:   written,
		CompletedAt: time.Now(),
	}
	if m.store != nil {
		if err := m.store.SaveDownload(rec); err != nil {
			return fmt.Errorf("save download record: %w", err)
		}
	}

	m.mu.Lock()
	m.records[track.ID] = rec
	m.mu.Unlock()
	return nil
}

func (m *Manager) trackPath(trackID string) string {
	return filepath.Join(m.dir, trackID+".mp3")
}

func (m *Manager) progressReader(r io.Reader, trackID string, total int64) io.Reader {
	return &countingReader{r: r, m: m, trackID: trackID, total: total}
}

func (m *Manager) advance(trackID string, n int64, total int64) {
	m.mu.Lock()
	tr, ok := m.inflight[trackID]
	if !ok {
		m.mu.Unlock()
		return
	}
	tr.prog.Received += n
	tr.prog.TotalBytes = total
	prog := tr.prog
	onProgress := m.onProgress
	m.mu.Unlock()

	if onProgress != nil {
		onProgress(prog)
	}
}

type countingReader struct {
	r       io.Reader
	m       *Manager
	trackID string
	total   int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.m.advance(c.trackID, int64(n), c.total)
	}
	return n, err
}
