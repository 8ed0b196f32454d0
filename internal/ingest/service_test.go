package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseview/pulseview/internal/series"
)

func writeLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestLoadAllReplaysWholeLog(t *testing.T) {
	path := writeLog(t, `{"target":"a","timestamp":0.2,"value":{"n":1}}
{"target":"a","timestamp":0.9,"value":{"n":3}}
{"target":"b","timestamp":1.4,"value":{"n":5}}
`)

	svc, err := Open(path, 1, io.Discard)
	require.NoError(t, err)
	defer svc.Close()

	n, err := svc.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, svc.Records())

	svc.WithSynced(func(ts *series.TimeSeries) {
		assert.Equal(t, 2, ts.Len())
		assert.Equal(t, int64(2), ts.EndTime())
		assert.Equal(t, []string{"a", "b"}, ts.Targets())
	})
}

func TestLoadAllFailsLoudlyOnMalformedLine(t *testing.T) {
	path := writeLog(t, `{"target":"a","timestamp":0.2,"value":1}
garbage
`)

	svc, err := Open(path, 1, io.Discard)
	require.NoError(t, err)
	defer svc.Close()

	n, err := svc.LoadAll()
	assert.Error(t, err, "a malformed log line must abort the load")
	assert.Equal(t, 1, n, "records before the malformed line were ingested")
}

func TestLoadAllIgnoresPartialTrailingLine(t *testing.T) {
	path := writeLog(t, `{"target":"a","timestamp":0.2,"value":1}
{"target":"a","timestamp":0.9,`)

	svc, err := Open(path, 1, io.Discard)
	require.NoError(t, err)
	defer svc.Close()

	n, err := svc.LoadAll()
	require.NoError(t, err, "an unterminated trailing line is not an error")
	assert.Equal(t, 1, n)
}

func TestTailPicksUpAppendedLines(t *testing.T) {
	path := writeLog(t, `{"target":"a","timestamp":0.2,"value":1}
`)

	svc, err := Open(path, 1, io.Discard)
	require.NoError(t, err)
	defer svc.Close()

	n, err := svc.LoadAll()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	gen := svc.Generation()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Tail(ctx, 10*time.Millisecond)
	}()

	// Append a full line the way a concurrent poll process would.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"target":"b","timestamp":2.5,"value":7}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return svc.Generation() > gen
	}, 2*time.Second, 10*time.Millisecond, "tail should ingest the appended record")

	assert.Equal(t, 2, svc.Records())
	svc.WithSynced(func(ts *series.TimeSeries) {
		assert.Equal(t, int64(3), ts.EndTime())
	})

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tail loop did not stop on cancellation")
	}
}
