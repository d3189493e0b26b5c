package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/harunnryd/benkei/internal/logger"

	"github.com/gofrs/flock"
)

// Entry is one tool invocation record. Inputs and results are deliberately
// not logged; the audit trail records that a tool ran, not what it saw.
type Entry struct {
	Timestamp  time.Time `json:"ts"`
	TraceID    string    `json:"trace_id,omitempty"`
	Tool       string    `json:"tool"`
	Status     string    `json:"status"`
	DurationMS int64     `json:"duration_ms"`
}

// Logger appends JSONL entries to a single audit file. A file lock guards
// against interleaved writes from concurrent benkei processes; the mutex
// guards concurrent conversations within one process.
type Logger struct {
	mu      sync.Mutex
	logPath string
	enabled bool
}

func NewLogger(path string, enabled bool) (*Logger, error) {
	if !enabled {
		return &Logger{enabled: false}, nil
	}
	if path == "" {
		return nil, fmt.Errorf("audit log path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create audit log dir: %w", err)
	}

	return &Logger{
		logPath: path,
		enabled: true,
	}, nil
}

func (l *Logger) Record(ctx context.Context, entry Entry) error {
	if l == nil || !l.enabled {
		return nil
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.TraceID == "" {
		entry.TraceID = logger.GetTraceID(ctx)
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fileLock := flock.New(l.logPath + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("acquire audit lock: %w", err)
	}
	defer fileLock.Unlock()

	f, err := os.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(entryJSON, '\n')); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}

	return nil
}
