package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/async"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	fsingest "github.com/PoYuTsai/TravelAPP-sub000/internal/ingest"
)

// Service handles ingestion business logic.
type Service struct {
	ingestor fsingest.Ingestor
	queue    async.Queue
	logger   *slog.Logger
}

// NewService creates a new ingest service. queue may be nil when files are
// only ever ingested synchronously.
func NewService(ing fsingest.Ingestor, q async.Queue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ingestor: ing,
		queue:    q,
		logger:   logger,
	}
}

// FileIngestRequest represents file ingestion parameters.
type FileIngestRequest struct {
	Path string
}

// DirectoryIngestResult represents directory ingestion results.
type DirectoryIngestResult struct {
	Statistics fsingest.DirStats
	Results    []fsingest.IngestionResult
}

// IngestFile ingests a single file.
func (s *Service) IngestFile(ctx context.Context, req FileIngestRequest) (fsingest.IngestionResult, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		s.logger.Error("ingest request missing path")
		return fsingest.IngestionResult{}, status.Error(codes.InvalidArgument, "path is required")
	}

	s.logger.Info("starting file ingest", "path", path)
	r, err := s.ingestor.IngestPath(ctx, path)
	if err != nil {
		return fsingest.IngestionResult{}, toStatus("ingest", err)
	}

	s.logger.Info("file ingest succeeded", "itinerary_id", r.ItineraryID, "deduplicated", r.Deduplicated)
	return r, nil
}

// DirectoryIngestRequest represents directory ingestion parameters.
type DirectoryIngestRequest struct {
	RootPath   string
	SkipHidden bool
}

// IngestDirectory ingests all itinerary files in a directory.
func (s *Service) IngestDirectory(ctx context.Context, req DirectoryIngestRequest) (*DirectoryIngestResult, error) {
	root := strings.TrimSpace(req.RootPath)
	if root == "" {
		s.logger.Error("ingest directory request missing root_path")
		return nil, status.Error(codes.InvalidArgument, "root_path is required")
	}

	s.logger.Info("starting directory ingest", "root", root, "skip_hidden", req.SkipHidden)
	results, stats, err := s.ingestor.IngestDirectory(ctx, root, req.SkipHidden)
	if err != nil {
		// file errors are already logged in the ingest layer
		return nil, toStatus("ingest directory", err)
	}

	s.logger.Info("directory ingest completed", "root", root, "scanned", stats.Scanned, "matched", stats.Matched, "succeeded", stats.Succeeded, "deduplicated", stats.Deduplicated, "failed", stats.Failed)
	return &DirectoryIngestResult{
		Statistics: stats,
		Results:    results,
	}, nil
}

// Enqueue hands path to the background workers and returns the trace ID
// attached to the job.
func (s *Service) Enqueue(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", status.Error(codes.InvalidArgument, "path is required")
	}
	if !fsingest.AllowedExt(filepath.Ext(path)) {
		return "", status.Errorf(codes.InvalidArgument, "unsupported file type: %s", path)
	}
	if s.queue == nil {
		return "", status.Error(codes.FailedPrecondition, "background ingest is not enabled")
	}

	traceID := common.RequestIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	if err := s.queue.Enqueue(ctx, async.Job{
		Path:        path,
		SubmittedAt: time.Now(),
		TraceID:     traceID,
	}); err != nil {
		s.logger.Error("enqueue failed for file", "path", path, "err", err)
		if errors.Is(err, async.ErrQueueClosed) {
			return "", status.Error(codes.Unavailable, err.Error())
		}
		return "", status.Errorf(codes.Internal, "enqueue failed: %v", err)
	}
	return traceID, nil
}

func toStatus(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	if errors.Is(err, fs.ErrNotExist) {
		return status.Errorf(codes.NotFound, "%s: %v", op, err)
	}
	return common.ToStatus(common.WrapError(err, op))
}
