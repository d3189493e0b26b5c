package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harunnryd/benkei/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Record(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l, err := NewLogger(path, true)
	require.NoError(t, err)

	ctx := logger.WithTraceID(context.Background(), "trace-1")
	require.NoError(t, l.Record(ctx, Entry{Tool: "bash", Status: "ok", DurationMS: 12}))
	require.NoError(t, l.Record(ctx, Entry{Tool: "read_file", Status: "error", DurationMS: 1}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 2)
	assert.Equal(t, "bash", entries[0].Tool)
	assert.Equal(t, "ok", entries[0].Status)
	assert.Equal(t, "trace-1", entries[0].TraceID)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, "read_file", entries[1].Tool)
}

func TestLogger_Disabled(t *testing.T) {
	l, err := NewLogger("", false)
	require.NoError(t, err)

	require.NoError(t, l.Record(context.Background(), Entry{Tool: "bash", Status: "ok"}))
}

func TestLogger_NilReceiver(t *testing.T) {
	var l *Logger
	require.NoError(t, l.Record(context.Background(), Entry{Tool: "bash"}))
}
