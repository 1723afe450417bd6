package handler

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-uniform-service/internal/auth"
	"github.com/fekuna/omnipos-uniform-service/internal/garment"
	"github.com/fekuna/omnipos-uniform-service/internal/garment/dto"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "uniform.catalog.v1.GarmentService"

type GarmentHandler struct {
	uc     garment.UseCase
	logger logger.ZapLogger
}

func NewGarmentHandler(uc garment.UseCase, log logger.ZapLogger) *GarmentHandler {
	return &GarmentHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *GarmentHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Method{Name: "CreateGarment", Handler: h.CreateGarment},
		rpc.Method{Name: "GetGarment", Handler: h.GetGarment},
		rpc.Method{Name: "ListGarments", Handler: h.ListGarments},
		rpc.Method{Name: "UpdateGarment", Handler: h.UpdateGarment},
		rpc.Method{Name: "DeactivateGarment", Handler: h.DeactivateGarment},
	)
}

type idRequest struct {
	ID string `json:"id"`
}

func (h *GarmentHandler) CreateGarment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateGarmentInput
	if err := rpc.Decode(req, &input); err != nil || input.Name == "" {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}

	g, err := h.uc.CreateGarment(ctx, &input)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(g)
}

func (h *GarmentHandler) GetGarment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}

	g, err := h.uc.GetGarment(ctx, in.ID)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(g)
}

func (h *GarmentHandler) ListGarments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.GarmentFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}

	garments, count, err := h.uc.ListGarments(ctx, &filters)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	if garments == nil {
		garments = []model.Garment{}
	}
	return rpc.Encode(map[string]interface{}{
		"garments":  garments,
		"total":     count,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *GarmentHandler) UpdateGarment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateGarmentInput
	if err := rpc.Decode(req, &input); err != nil || input.ID == "" {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}

	g, err := h.uc.UpdateGarment(ctx, &input)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(g)
}

func (h *GarmentHandler) DeactivateGarment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}

	if err := h.uc.DeactivateGarment(ctx, in.ID); err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

func (h *GarmentHandler) toStatus(ctx context.Context, err error) error {
	lang := auth.GetLocale(ctx)
	switch {
	case errors.Is(err, garment.ErrNotFound):
		return rpc.Error(codes.NotFound, lang, "garment_not_found")
	case errors.Is(err, garment.ErrNameRequired):
		return rpc.Error(codes.InvalidArgument, lang, "invalid_request")
	}
	h.logger.Error("garment request failed", zap.Error(err))
	return rpc.Error(codes.Internal, lang, "internal_error")
}
