package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"job-research/internal/logging"
	"job-research/pkg/utils"
)

const requestIDKey = "x-request-id"

// LoggingInterceptor returns a gRPC unary interceptor that logs requests and responses
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()
		requestID := requestIDFrom(ctx)

		resp, err := handler(ctx, req)

		logCompletion(requestID, info.FullMethod, "grpc_request", time.Since(startTime), err)
		return resp, err
	}
}

// StreamLoggingInterceptor returns a gRPC streaming interceptor that logs stream operations
func StreamLoggingInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		startTime := time.Now()
		requestID := requestIDFrom(ss.Context())

		logging.GetGlobalLogger().Debug("gRPC stream started", map[string]interface{}{
			"request_id": requestID,
			"method":     info.FullMethod,
		})

		err := handler(srv, ss)

		logCompletion(requestID, info.FullMethod, "grpc_stream", time.Since(startTime), err)
		return err
	}
}

func logCompletion(requestID, method, kind string, elapsed time.Duration, err error) {
	fields := map[string]interface{}{
		"request_id":         requestID,
		"method":             method,
		"processing_time_ms": elapsed.Milliseconds(),
		"status_code":        status.Code(err).String(),
		"type":               kind,
	}

	logger := logging.GetGlobalLogger()
	if err != nil {
		fields["error"] = err.Error()
		logger.Error("gRPC call failed", fields)
		return
	}
	// health probes are frequent
	logger.Debug("gRPC call completed", fields)
}

// requestIDFrom reuses a caller supplied x-request-id when present
func requestIDFrom(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return utils.GenerateRequestID()
}
