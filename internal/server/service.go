package server

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/basicinfo"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/export"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
	ingestsvc "github.com/PoYuTsai/TravelAPP-sub000/internal/services/ingest"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/trips"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/utils"
)

// maxTextLen bounds text fields of parse requests.
const maxTextLen = 1 << 20

// ItineraryServer implements ItineraryServiceServer on top of the service
// layer. Stateless parse methods work without any stored data.
type ItineraryServer struct {
	trips   *trips.Service
	export  *export.Service
	ingest  *ingestsvc.Service
	logger  *slog.Logger
	defYear int
}

// Option configures an ItineraryServer.
type Option func(*ItineraryServer)

// WithExport enables ExportItinerary.
func WithExport(svc *export.Service) Option {
	return func(s *ItineraryServer) { s.export = svc }
}

// WithIngest enables IngestDirectory and EnqueueFile.
func WithIngest(svc *ingestsvc.Service) Option {
	return func(s *ItineraryServer) { s.ingest = svc }
}

// WithDefaultYear sets the year used when a parse request carries none.
func WithDefaultYear(year int) Option {
	return func(s *ItineraryServer) { s.defYear = year }
}

func NewItineraryServer(tripSvc *trips.Service, logger *slog.Logger, opts ...Option) *ItineraryServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ItineraryServer{trips: tripSvc, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ ItineraryServiceServer = (*ItineraryServer)(nil)

type textRequest struct {
	Text string `json:"text"`
	Year int    `json:"year"`
}

func (s *ItineraryServer) decodeText(in *structpb.Struct) (textRequest, error) {
	var req textRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return req, status.Error(codes.InvalidArgument, err.Error())
	}
	if len(req.Text) > maxTextLen {
		return req, status.Errorf(codes.InvalidArgument, "text exceeds %d bytes", maxTextLen)
	}
	if req.Year <= 0 {
		req.Year = s.defYear
	}
	return req, nil
}

func reply(v any) (*structpb.Struct, error) {
	out, err := utils.ToStruct(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// ParseItinerary parses day-by-day text. Text without days is not an
// error: the response carries success=false.
func (s *ItineraryServer) ParseItinerary(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.decodeText(in)
	if err != nil {
		return nil, err
	}
	var opts []itinerary.Option
	if req.Year > 0 {
		opts = append(opts, itinerary.WithYear(req.Year))
	}
	res := itinerary.Parse(req.Text, opts...)
	s.logger.Info("itinerary.parse.ok", "days", len(res.Days), "warnings", len(res.Warnings), "success", res.Success)
	return reply(res)
}

type formatRequest struct {
	Days []itinerary.Day `json:"days"`
}

// FormatItinerary renders days back to canonical text.
func (s *ItineraryServer) FormatItinerary(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req formatRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return reply(map[string]any{"text": itinerary.Format(req.Days)})
}

func (s *ItineraryServer) ParseBasicInfo(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.decodeText(in)
	if err != nil {
		return nil, err
	}
	return reply(basicinfo.Parse(req.Text))
}

type quotationReply struct {
	quotation.Quotation
	Sum  float64 `json:"sum"`
	Text string  `json:"text"`
}

// ParseQuotation returns the items, the declared total and, for
// cross-checking, the sum of item amounts.
func (s *ItineraryServer) ParseQuotation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.decodeText(in)
	if err != nil {
		return nil, err
	}
	var opts []quotation.Option
	if req.Year > 0 {
		opts = append(opts, quotation.WithYear(req.Year))
	}
	q := quotation.Parse(req.Text, opts...)
	return reply(quotationReply{Quotation: q, Sum: q.Sum(), Text: quotation.Format(q)})
}

// ParseDocument splits a whole trip document into its blocks and parses
// each of them.
func (s *ItineraryServer) ParseDocument(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.decodeText(in)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, status.Error(codes.InvalidArgument, "text is required")
	}
	doc := s.trips.Parse(req.Text, req.Year)
	s.logger.Info("document.parse.ok", "days", len(doc.Itinerary.Days), "items", len(doc.Quotation.Items), "year", doc.Year)
	return reply(doc)
}
