package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/session"
	"github.com/fekuna/omnipos-uniform-service/internal/session/dto"
	"go.uber.org/zap"
)

type sessionUseCase struct {
	repo     session.Repository
	defaults dto.Defaults
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewSessionUseCase(repo session.Repository, defaults dto.Defaults, log logger.ZapLogger) session.UseCase {
	return &sessionUseCase{
		repo:     repo,
		defaults: defaults,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *sessionUseCase) Get(ctx context.Context, token string) (*model.SessionState, error) {
	if token == "" {
		return nil, nil
	}
	return uc.repo.Get(ctx, token)
}

func (uc *sessionUseCase) Load(ctx context.Context, token string) (*model.SessionState, error) {
	if token == "" {
		return nil, session.ErrMissingToken
	}

	state, err := uc.repo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	state = &model.SessionState{
		Token:     token,
		Theme:     uc.defaults.Theme,
		Locale:    uc.defaults.Locale,
		UpdatedAt: uc.now(),
	}
	if err := uc.repo.Save(ctx, state); err != nil {
		return nil, err
	}
	uc.logger.Debug("initialized session state", zap.String("theme", state.Theme), zap.String("locale", state.Locale))
	return state, nil
}

func (uc *sessionUseCase) Update(ctx context.Context, input *dto.UpdateSessionInput) (*model.SessionState, error) {
	state, err := uc.Load(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	if input.UserID != nil {
		state.UserID = *input.UserID
	}
	if input.BranchID != nil {
		state.BranchID = *input.BranchID
	}
	if input.Theme != nil {
		state.Theme = *input.Theme
	}
	if input.Locale != nil {
		state.Locale = *input.Locale
	}
	state.UpdatedAt = uc.now()

	if err := uc.repo.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (uc *sessionUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return session.ErrMissingToken
	}
	return uc.repo.Delete(ctx, token)
}
