package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/async"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	fsingest "github.com/PoYuTsai/TravelAPP-sub000/internal/ingest"
)

type stubIngestor struct {
	err   error
	stats fsingest.DirStats
}

func (s stubIngestor) IngestPath(_ context.Context, path string) (fsingest.IngestionResult, error) {
	if s.err != nil {
		return fsingest.IngestionResult{}, s.err
	}
	return fsingest.IngestionResult{SourcePath: path, ItineraryID: "abc"}, nil
}

func (s stubIngestor) IngestDirectory(_ context.Context, root string, _ bool) ([]fsingest.IngestionResult, fsingest.DirStats, error) {
	if s.err != nil {
		return nil, fsingest.DirStats{}, s.err
	}
	return []fsingest.IngestionResult{{SourcePath: root + "/a.txt"}}, s.stats, nil
}

type recordingQueue struct {
	jobs []async.Job
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, job async.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Shutdown(context.Context) {}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestIngestFile(t *testing.T) {
	svc := NewService(stubIngestor{}, nil, quiet())
	r, err := svc.IngestFile(context.Background(), FileIngestRequest{Path: " /tmp/a.txt "})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.txt", r.SourcePath)

	_, err = svc.IngestFile(context.Background(), FileIngestRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestIngestFile_ErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrNoItinerary, codes.InvalidArgument},
		{fmt.Errorf("open: %w", fs.ErrNotExist), codes.NotFound},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("disk on fire"), codes.Internal},
	}
	for _, tc := range cases {
		svc := NewService(stubIngestor{err: tc.err}, nil, quiet())
		_, err := svc.IngestFile(context.Background(), FileIngestRequest{Path: "x.txt"})
		assert.Equal(t, tc.code, status.Code(err), tc.err.Error())
	}
}

func TestIngestDirectory(t *testing.T) {
	svc := NewService(stubIngestor{stats: fsingest.DirStats{Matched: 1, Succeeded: 1}}, nil, quiet())
	out, err := svc.IngestDirectory(context.Background(), DirectoryIngestRequest{RootPath: "/data", SkipHidden: true})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), out.Statistics.Succeeded)
	assert.Len(t, out.Results, 1)

	_, err = svc.IngestDirectory(context.Background(), DirectoryIngestRequest{RootPath: "  "})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestEnqueue(t *testing.T) {
	q := &recordingQueue{}
	svc := NewService(stubIngestor{}, q, quiet())

	ctx := common.WithRequestID(context.Background(), "req-1")
	trace, err := svc.Enqueue(ctx, "/data/trip.txt")
	require.NoError(t, err)
	assert.Equal(t, "req-1", trace)
	require.Len(t, q.jobs, 1)
	assert.Equal(t, "/data/trip.txt", q.jobs[0].Path)

	_, err = svc.Enqueue(ctx, "/data/photo.jpg")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	q.err = async.ErrQueueClosed
	_, err = svc.Enqueue(ctx, "/data/trip.txt")
	assert.Equal(t, codes.Unavailable, status.Code(err))

	_, err = NewService(stubIngestor{}, nil, quiet()).Enqueue(ctx, "/data/trip.txt")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}
