package middleware

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/auth"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// SessionReader looks up stored session state without creating it.
type SessionReader interface {
	Get(ctx context.Context, token string) (*model.SessionState, error)
}

// ContextInterceptor resolves the x-session-token header into the session
// state and stores it in the request context. Requests without a token, with
// no stored state, or whose state cannot be read, continue without one.
func ContextInterceptor(sessions SessionReader, log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if token := auth.GetSessionToken(ctx); token != "" && sessions != nil {
			state, err := sessions.Get(ctx, token)
			switch {
			case err != nil:
				log.Warn("failed to read session state", zap.String("method", info.FullMethod), zap.Error(err))
			case state != nil:
				ctx = auth.WithSession(ctx, state)
			}
		}
		return handler(ctx, req)
	}
}

func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
