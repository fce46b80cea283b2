package interceptors

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	requestIDKey = "x-request-id"
)

type requestIDCtxKey struct{}

// RequestIDFromContext returns the id assigned by LoggingInterceptor, or ""
// outside an intercepted call.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

type idGetter interface {
	GetId() string
}

// LoggingInterceptor tags each call with a request id, echoes it back in the
// response header and logs the outcome. Client-side failures are logged at
// warn level, everything else that fails at error level.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp any, err error) {
		start := time.Now()

		requestID := getOrGenerateRequestID(ctx)
		ctx = context.WithValue(ctx, requestIDCtxKey{}, requestID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, requestID))

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("request_id", requestID),
		}
		if r, ok := req.(idGetter); ok && r.GetId() != "" {
			fields = append(fields, zap.String("task_id", r.GetId()))
		}

		logger.Debug("gRPC request started", fields...)

		resp, err = handler(ctx, req)

		fields = append(fields, zap.Duration("duration", time.Since(start)))

		if err != nil {
			st, _ := status.FromError(err)
			fields = append(fields,
				zap.String("code", st.Code().String()),
				zap.String("error", st.Message()),
			)
			logger.Log(levelFor(st.Code()), "gRPC request failed", fields...)
		} else {
			logger.Info("gRPC request completed", fields...)
		}

		return resp, err
	}
}

func levelFor(code codes.Code) zapcore.Level {
	switch code {
	case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.Aborted, codes.FailedPrecondition, codes.Canceled:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func getOrGenerateRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.New().String()
	}

	requestIDs := md.Get(requestIDKey)
	if len(requestIDs) > 0 && requestIDs[0] != "" {
		return requestIDs[0]
	}

	return uuid.New().String()
}
