package testutil

import (
	"bytes"
	"log"
	"sync"
	"testing"

	"github.com/nhle/taskboard/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		// Sessions close their store on teardown; a second close is harmless.
		_ = s.Close()
	})

	return s
}

// LogBuffer collects log output so tests can assert on diagnostics.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewLogger returns a logger writing into a fresh LogBuffer.
func NewLogger() (*log.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return log.New(buf, "", 0), buf
}
