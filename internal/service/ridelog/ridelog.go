package ridelog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/pkg/logger"
)

// Entry is one persisted state transition: the full ride snapshot plus
// the moment the transition was recorded.
type Entry struct {
	Ride      ride.Ride `json:"ride"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger appends a JSON snapshot of every ride state transition to a
// single file. The file is rewritten whole under an internal lock;
// failures never propagate to the lifecycle operation that triggered
// the append.
type Logger struct {
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger *logger.Logger
}

// New creates a ride logger writing to dir/rides.json
func New(dir string, log *logger.Logger) *Logger {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("Failed to create ride log directory", logger.Err(err), logger.String("dir", dir))
	}
	return &Logger{
		path:   filepath.Join(dir, "rides.json"),
		now:    time.Now,
		logger: log,
	}
}

// Append records a state transition. Fire-and-forget: any I/O error is
// logged and swallowed.
func (l *Logger) Append(r *ride.Ride) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.readLocked()
	if err != nil {
		l.logger.Error("Failed to read ride log, starting fresh", logger.Err(err), logger.String("path", l.path))
		entries = nil
	}

	entries = append(entries, Entry{Ride: *r, Timestamp: l.now()})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		l.logger.Error("Failed to marshal ride log", logger.Err(err), logger.String("ride_id", r.ID))
		return
	}

	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		l.logger.Error("Failed to write ride log", logger.Err(err), logger.String("ride_id", r.ID))
		return
	}

	l.logger.Debug("Ride transition logged",
		logger.String("ride_id", r.ID),
		logger.String("status", string(r.Status)),
	)
}

// ReadAll returns every logged transition in append order
func (l *Logger) ReadAll() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked()
}

func (l *Logger) readLocked() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
