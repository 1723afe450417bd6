package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/size"
	"github.com/fekuna/omnipos-uniform-service/internal/size/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items map[string]model.Size
}

func (r *fakeRepo) Create(_ context.Context, s *model.Size) error {
	r.items[s.ID] = *s
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*model.Size, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeRepo) FindAll(_ context.Context, _ *dto.SizeFilters) ([]model.Size, int, error) {
	out := []model.Size{}
	for _, s := range r.items {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(_ context.Context, s *model.Size) error {
	r.items[s.ID] = *s
	return nil
}

func newUseCase() (size.UseCase, *fakeRepo) {
	repo := &fakeRepo{items: map[string]model.Size{}}
	return NewSizeUseCase(repo, logger.NewNop()), repo
}

func TestSizeLifecycle(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()

	s, err := uc.CreateSize(ctx, &dto.CreateSizeInput{Name: "M", DisplayOrder: 2})
	require.NoError(t, err)
	assert.True(t, s.IsActive)

	updated, err := uc.UpdateSize(ctx, &dto.UpdateSizeInput{ID: s.ID, Name: "Medium", DisplayOrder: 3, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "Medium", updated.Name)

	require.NoError(t, uc.DeactivateSize(ctx, s.ID))
	assert.False(t, repo.items[s.ID].IsActive)

	items, count, err := uc.ListSizes(ctx, &dto.SizeFilters{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, count)
}

func TestSizeErrors(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.CreateSize(ctx, &dto.CreateSizeInput{Name: " "})
	assert.ErrorIs(t, err, size.ErrNameRequired)

	_, err = uc.GetSize(ctx, "missing")
	assert.ErrorIs(t, err, size.ErrNotFound)

	assert.ErrorIs(t, uc.DeactivateSize(ctx, "missing"), size.ErrNotFound)
}
