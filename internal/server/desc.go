package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "itinerary.v1.ItineraryService"

// Method names. Every method takes and returns a google.protobuf.Struct
// whose fields follow the JSON names of the Go types.
const (
	MethodParseItinerary   = "ParseItinerary"
	MethodFormatItinerary  = "FormatItinerary"
	MethodParseBasicInfo   = "ParseBasicInfo"
	MethodParseQuotation   = "ParseQuotation"
	MethodParseDocument    = "ParseDocument"
	MethodSaveItinerary    = "SaveItinerary"
	MethodGetItinerary     = "GetItinerary"
	MethodListItineraries  = "ListItineraries"
	MethodDeleteItinerary  = "DeleteItinerary"
	MethodReplaceQuotation = "ReplaceQuotation"
	MethodExportItinerary  = "ExportItinerary"
	MethodIngestDirectory  = "IngestDirectory"
	MethodEnqueueFile      = "EnqueueFile"
)

// ItineraryServiceServer is the server API for the itinerary service.
type ItineraryServiceServer interface {
	ParseItinerary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FormatItinerary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ParseBasicInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ParseQuotation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ParseDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveItinerary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetItinerary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListItineraries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteItinerary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReplaceQuotation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportItinerary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IngestDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EnqueueFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ItineraryServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ItineraryServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ItineraryServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ItineraryService_ServiceDesc is the grpc.ServiceDesc for the itinerary service.
var ItineraryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ItineraryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodParseItinerary, ItineraryServiceServer.ParseItinerary),
		unary(MethodFormatItinerary, ItineraryServiceServer.FormatItinerary),
		unary(MethodParseBasicInfo, ItineraryServiceServer.ParseBasicInfo),
		unary(MethodParseQuotation, ItineraryServiceServer.ParseQuotation),
		unary(MethodParseDocument, ItineraryServiceServer.ParseDocument),
		unary(MethodSaveItinerary, ItineraryServiceServer.SaveItinerary),
		unary(MethodGetItinerary, ItineraryServiceServer.GetItinerary),
		unary(MethodListItineraries, ItineraryServiceServer.ListItineraries),
		unary(MethodDeleteItinerary, ItineraryServiceServer.DeleteItinerary),
		unary(MethodReplaceQuotation, ItineraryServiceServer.ReplaceQuotation),
		unary(MethodExportItinerary, ItineraryServiceServer.ExportItinerary),
		unary(MethodIngestDirectory, ItineraryServiceServer.IngestDirectory),
		unary(MethodEnqueueFile, ItineraryServiceServer.EnqueueFile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "itinerary/v1/itinerary.proto",
}

func RegisterItineraryServiceServer(s grpc.ServiceRegistrar, srv ItineraryServiceServer) {
	s.RegisterService(&ItineraryService_ServiceDesc, srv)
}
