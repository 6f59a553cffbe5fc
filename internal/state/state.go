package state

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lyra-music/lyra/internal/playback"
)

const (
	appName      = "lyra"
	dbFileName   = "lyra.db"
	saveDebounce = 500 * time.Millisecond
)

// Manager owns the on-disk SQLite state: player snapshot, favorites,
// recent searches and download records. Snapshot writes are debounced
// so rapid queue edits collapse into one write.
type Manager struct {
	db  *sql.DB
	log *slog.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *playback.Snapshot
}

// Open opens the database in the XDG data directory, creating it and
// the schema as needed.
func Open(log *slog.Logger) (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath, log)
}

// OpenPath opens the database at an explicit path.
func OpenPath(dbPath string, log *slog.Logger) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db, log: log}, nil
}

// DB exposes the underlying handle.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Close flushes any pending snapshot and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		if err := saveSnapshot(m.db, *pending); err != nil {
			m.log.Warn("failed to flush player snapshot", "error", err)
		}
	}
	return m.db.Close()
}

// SaveSnapshot schedules a debounced snapshot write. Fire and forget:
// failures are logged, never surfaced to the transport.
func (m *Manager) SaveSnapshot(snap playback.Snapshot) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &snap

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			if err := saveSnapshot(m.db, *pending); err != nil {
				m.log.Warn("failed to save player snapshot", "error", err)
			}
		}
	})
}

// LoadSnapshot reads the persisted player snapshot. Missing or corrupt
// data yields ok=false so startup falls back to defaults.
func (m *Manager) LoadSnapshot() (playback.Snapshot, bool) {
	snap, ok, err := loadSnapshot(m.db)
	if err != nil {
		m.log.Warn("failed to load player snapshot, starting fresh", "error", err)
		return playback.Snapshot{}, false
	}
	return snap, ok
}

// Verify Manager satisfies the persistence contract at compile time.
var _ playback.SnapshotStore = (*Manager)(nil)
