package async

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/ingest"
)

type fakeProcessor struct {
	mu    sync.Mutex
	seen  []string
	block chan struct{}
}

func (f *fakeProcessor) IngestPath(ctx context.Context, path string) (ingest.IngestionResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.seen = append(f.seen, path)
	f.mu.Unlock()
	if path == "bad.txt" {
		return ingest.IngestionResult{}, errors.New("boom")
	}
	return ingest.IngestionResult{SourcePath: path, ItineraryID: "id-" + path}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessorQueue_ProcessesAll(t *testing.T) {
	proc := &fakeProcessor{}
	var mu sync.Mutex
	results := map[string]error{}

	q := NewProcessorQueue(proc, quietLogger(),
		WithWorkers(3),
		WithQueueSize(2),
		WithResultHandler(func(job Job, res ingest.IngestionResult, err error) {
			mu.Lock()
			defer mu.Unlock()
			results[job.Path] = err
		}),
	)

	paths := []string{"a.txt", "b.txt", "bad.txt", "c.txt", "d.txt"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p}))
	}
	q.Shutdown(context.Background())

	assert.ElementsMatch(t, paths, proc.seen)
	require.Len(t, results, len(paths))
	assert.Error(t, results["bad.txt"])
	assert.NoError(t, results["a.txt"])
}

func TestProcessorQueue_EnqueueAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&fakeProcessor{}, quietLogger())
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Path: "late.txt"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestProcessorQueue_EnqueueHonoursContext(t *testing.T) {
	proc := &fakeProcessor{block: make(chan struct{})}
	q := NewProcessorQueue(proc, quietLogger(), WithWorkers(1), WithQueueSize(1))

	// one job held by the worker, one filling the buffer
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "1.txt"}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "2.txt"}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Job{Path: "3.txt"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(proc.block)
	q.Shutdown(context.Background())
	assert.ElementsMatch(t, []string{"1.txt", "2.txt"}, proc.seen)
}
