package server

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	ingestsvc "github.com/PoYuTsai/TravelAPP-sub000/internal/services/ingest"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/utils"
)

type ingestDirectoryRequest struct {
	RootPath   string `json:"root_path"`
	SkipHidden *bool  `json:"skip_hidden"`
}

type ingestResult struct {
	SourcePath   string `json:"source_path"`
	ItineraryID  string `json:"itinerary_id,omitempty"`
	Deduplicated bool   `json:"deduplicated"`
	HashHex      string `json:"content_hash_hex,omitempty"`
	Days         int    `json:"days"`
	IngestedAt   string `json:"ingested_at,omitempty"`
	Error        string `json:"error,omitempty"`
}

type ingestDirectoryReply struct {
	Scanned      uint32         `json:"scanned"`
	Matched      uint32         `json:"matched"`
	Succeeded    uint32         `json:"succeeded"`
	Deduplicated uint32         `json:"deduplicated"`
	Failed       uint32         `json:"failed"`
	Results      []ingestResult `json:"results"`
}

// IngestDirectory ingests every itinerary file under root_path on the
// server's filesystem. skip_hidden defaults to true.
func (s *ItineraryServer) IngestDirectory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.ingest == nil {
		return nil, status.Error(codes.Unimplemented, "ingest is not enabled")
	}
	var req ingestDirectoryRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	skipHidden := true
	if req.SkipHidden != nil {
		skipHidden = *req.SkipHidden
	}

	res, err := s.ingest.IngestDirectory(ctx, ingestsvc.DirectoryIngestRequest{RootPath: req.RootPath, SkipHidden: skipHidden})
	if err != nil {
		return nil, err
	}

	stats := res.Statistics
	out := ingestDirectoryReply{
		Scanned:      stats.Scanned,
		Matched:      stats.Matched,
		Succeeded:    stats.Succeeded,
		Deduplicated: stats.Deduplicated,
		Failed:       stats.Failed,
		Results:      make([]ingestResult, 0, len(res.Results)),
	}
	for _, r := range res.Results {
		item := ingestResult{
			SourcePath:   r.SourcePath,
			ItineraryID:  r.ItineraryID,
			Deduplicated: r.Deduplicated,
			HashHex:      r.HashHex,
			Days:         r.Days,
			Error:        r.Err,
		}
		if !r.IngestedAt.IsZero() {
			item.IngestedAt = r.IngestedAt.UTC().Format(time.RFC3339)
		}
		out.Results = append(out.Results, item)
	}
	return reply(out)
}

type enqueueRequest struct {
	Path string `json:"path"`
}

// EnqueueFile queues one file for background ingest.
func (s *ItineraryServer) EnqueueFile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.ingest == nil {
		return nil, status.Error(codes.Unimplemented, "ingest is not enabled")
	}
	var req enqueueRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	trace, err := s.ingest.Enqueue(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	return reply(map[string]any{"path": req.Path, "trace_id": trace})
}
