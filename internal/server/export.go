package server

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/export"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/utils"
)

type exportRequest struct {
	ID     string `json:"id"`
	Format string `json:"format"`
}

// exportReply carries the document bytes base64-encoded in "data".
type exportReply struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

func (s *ItineraryServer) ExportItinerary(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.export == nil {
		return nil, status.Error(codes.Unimplemented, "export is not enabled")
	}
	var req exportRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if strings.TrimSpace(req.Format) == "" {
		req.Format = string(export.FormatXLSX)
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	// fetch through the trips service so the ID gets validated
	rec, err := s.trips.Get(ctx, req.ID)
	if err != nil {
		return nil, common.ToStatus(err)
	}

	data, name, err := s.export.Export(ctx, rec.ID, format)
	if err != nil {
		s.logger.Error("export.failed", "itinerary_id", req.ID, "err", err)
		return nil, common.ToStatus(err)
	}
	return reply(exportReply{FileName: name, ContentType: format.ContentType(), Data: data})
}
