package auth

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"google.golang.org/grpc/metadata"
)

type sessionKey struct{}

func WithSession(ctx context.Context, s *model.SessionState) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (*model.SessionState, bool) {
	s, ok := ctx.Value(sessionKey{}).(*model.SessionState)
	return s, ok && s != nil
}

// GetBranchID prefers the branch stored in the session and falls back to
// the x-branch-id metadata header.
func GetBranchID(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok && s.BranchID != "" {
		return s.BranchID
	}
	return fromMetadata(ctx, "x-branch-id")
}

func GetUserID(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok && s.UserID != "" {
		return s.UserID
	}
	return fromMetadata(ctx, "x-user-id")
}

func GetLocale(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok && s.Locale != "" {
		return s.Locale
	}
	return fromMetadata(ctx, "accept-language")
}

func GetSessionToken(ctx context.Context) string {
	return fromMetadata(ctx, "x-session-token")
}

func fromMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if val := md.Get(key); len(val) > 0 {
		return val[0]
	}
	return ""
}
