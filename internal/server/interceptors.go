package server

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
)

// RequestIDHeader is the metadata key carrying a caller-chosen request ID.
const RequestIDHeader = "x-request-id"

// UnaryInterceptor attaches a request ID and a request-scoped logger to the
// context, applies the request timeout, logs each call and turns panics into
// Internal errors.
func UnaryInterceptor(logger *slog.Logger, timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDHeader); len(v) > 0 {
				reqID = v[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		l := logger.With("request_id", reqID, "method", info.FullMethod)
		ctx = common.WithLogger(common.WithRequestID(ctx, reqID), l)
		ctx, cancel := common.WithTimeout(ctx, timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				l.Error("grpc.panic", "panic", r, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
			code := status.Code(err)
			attrs := []any{"code", code.String(), "elapsed_ms", time.Since(start).Milliseconds()}
			switch code {
			case codes.OK:
				l.Info("grpc.request", attrs...)
			case codes.Internal, codes.Unknown, codes.DataLoss:
				l.Error("grpc.request", append(attrs, "error", err)...)
			default:
				l.Warn("grpc.request", append(attrs, "error", err)...)
			}
		}()
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, reqID))
		return handler(ctx, req)
	}
}
