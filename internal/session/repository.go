package session

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
)

type Repository interface {
	// Get returns nil, nil when no state is stored for token.
	Get(ctx context.Context, token string) (*model.SessionState, error)
	Save(ctx context.Context, state *model.SessionState) error
	Delete(ctx context.Context, token string) error
}
