package server

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/trips"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/utils"
)

type saveRequest struct {
	Text       string `json:"text"`
	Title      string `json:"title"`
	Year       int    `json:"year"`
	SourcePath string `json:"source_path"`
}

type idRequest struct {
	ID string `json:"id"`
}

type listRequest struct {
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
	ClientName string `json:"client_name"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

type replaceQuotationRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SaveItinerary parses a whole trip document and stores it.
func (s *ItineraryServer) SaveItinerary(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req saveRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Year <= 0 {
		req.Year = s.defYear
	}
	rec, err := s.trips.Save(ctx, trips.SaveRequest{
		Text:       req.Text,
		Title:      req.Title,
		Year:       req.Year,
		SourcePath: req.SourcePath,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return reply(rec)
}

func (s *ItineraryServer) GetItinerary(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req idRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rec, err := s.trips.Get(ctx, req.ID)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return reply(rec)
}

func (s *ItineraryServer) ListItineraries(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req listRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Limit < 0 || req.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit and offset must not be negative")
	}
	recs, err := s.trips.List(ctx, trips.ListRequest{
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
		ClientName: req.ClientName,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return reply(map[string]any{"itineraries": utils.ToSummaries(recs)})
}

func (s *ItineraryServer) DeleteItinerary(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req idRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.trips.Delete(ctx, req.ID); err != nil {
		return nil, common.ToStatus(err)
	}
	return reply(map[string]any{"id": req.ID, "deleted": true})
}

// ReplaceQuotation re-parses a quotation block for a stored itinerary.
func (s *ItineraryServer) ReplaceQuotation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req replaceQuotationRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	q, err := s.trips.ReplaceQuotation(ctx, req.ID, req.Text)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return reply(q)
}
