package session

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/session/dto"
)

var ErrMissingToken = errors.New("session token is required")

// UseCase owns the application state of a signed-in user. It is created on
// first Load or Update, persisted on every change and discarded on logout.
type UseCase interface {
	// Get returns the stored state, or nil when there is none. It never writes.
	Get(ctx context.Context, token string) (*model.SessionState, error)
	Load(ctx context.Context, token string) (*model.SessionState, error)
	Update(ctx context.Context, input *dto.UpdateSessionInput) (*model.SessionState, error)
	Logout(ctx context.Context, token string) error
}
