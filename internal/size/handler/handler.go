package handler

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-uniform-service/internal/auth"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/rpc"
	"github.com/fekuna/omnipos-uniform-service/internal/size"
	"github.com/fekuna/omnipos-uniform-service/internal/size/dto"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "uniform.catalog.v1.SizeService"

type SizeHandler struct {
	uc     size.UseCase
	logger logger.ZapLogger
}

func NewSizeHandler(uc size.UseCase, log logger.ZapLogger) *SizeHandler {
	return &SizeHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SizeHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Method{Name: "CreateSize", Handler: h.CreateSize},
		rpc.Method{Name: "GetSize", Handler: h.GetSize},
		rpc.Method{Name: "ListSizes", Handler: h.ListSizes},
		rpc.Method{Name: "UpdateSize", Handler: h.UpdateSize},
		rpc.Method{Name: "DeactivateSize", Handler: h.DeactivateSize},
	)
}

type idRequest struct {
	ID string `json:"id"`
}

func (h *SizeHandler) CreateSize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateSizeInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	s, err := h.uc.CreateSize(ctx, &input)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(s)
}

func (h *SizeHandler) GetSize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	s, err := h.uc.GetSize(ctx, in.ID)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(s)
}

func (h *SizeHandler) ListSizes(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.SizeFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	sizes, count, err := h.uc.ListSizes(ctx, &filters)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	if sizes == nil {
		sizes = []model.Size{}
	}
	return rpc.Encode(map[string]interface{}{"sizes": sizes, "total": count})
}

func (h *SizeHandler) UpdateSize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateSizeInput
	if err := rpc.Decode(req, &input); err != nil || input.ID == "" {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	s, err := h.uc.UpdateSize(ctx, &input)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(s)
}

func (h *SizeHandler) DeactivateSize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	if err := h.uc.DeactivateSize(ctx, in.ID); err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

func (h *SizeHandler) toStatus(ctx context.Context, err error) error {
	lang := auth.GetLocale(ctx)
	switch {
	case errors.Is(err, size.ErrNotFound):
		return rpc.Error(codes.NotFound, lang, "size_not_found")
	case errors.Is(err, size.ErrNameRequired):
		return rpc.Error(codes.InvalidArgument, lang, "invalid_request")
	}
	h.logger.Error("size request failed", zap.Error(err))
	return rpc.Error(codes.Internal, lang, "internal_error")
}
