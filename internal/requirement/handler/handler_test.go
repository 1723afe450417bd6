package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type stubUseCase struct {
	reqs []model.SupplyRequirement
	err  error
}

func (s *stubUseCase) ComputeRequirements(context.Context) ([]model.SupplyRequirement, error) {
	return s.reqs, s.err
}

func (s *stubUseCase) Invalidate(context.Context) {}

func TestComputeRequirements_Renders(t *testing.T) {
	h := NewRequirementHandler(&stubUseCase{reqs: []model.SupplyRequirement{
		{SupplyID: "button", Name: "Button", Code: "BT", QuantityNeeded: decimal.NewFromInt(48), UnitName: "pz"},
	}}, logger.NewNop())

	resp, err := h.ComputeRequirements(context.Background(), nil)
	require.NoError(t, err)

	items := resp.Fields["requirements"].GetListValue().GetValues()
	require.Len(t, items, 1)
	row := items[0].GetStructValue().Fields
	assert.Equal(t, float64(48), row["quantity_needed"].GetNumberValue())
	assert.Equal(t, "pz", row["unit_name"].GetStringValue())
}

func TestComputeRequirements_EmptyIsNotAnError(t *testing.T) {
	h := NewRequirementHandler(&stubUseCase{reqs: []model.SupplyRequirement{}}, logger.NewNop())

	resp, err := h.ComputeRequirements(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Fields["requirements"].GetListValue().GetValues())
}

func TestComputeRequirements_Failure(t *testing.T) {
	h := NewRequirementHandler(&stubUseCase{err: errors.New("db down")}, logger.NewNop())

	_, err := h.ComputeRequirements(context.Background(), nil)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
