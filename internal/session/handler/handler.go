package handler

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-uniform-service/internal/auth"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/rpc"
	"github.com/fekuna/omnipos-uniform-service/internal/session"
	"github.com/fekuna/omnipos-uniform-service/internal/session/dto"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "uniform.session.v1.SessionService"

type SessionHandler struct {
	uc     session.UseCase
	logger logger.ZapLogger
}

func NewSessionHandler(uc session.UseCase, log logger.ZapLogger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SessionHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Method{Name: "GetSession", Handler: h.GetSession},
		rpc.Method{Name: "UpdateSession", Handler: h.UpdateSession},
		rpc.Method{Name: "Logout", Handler: h.Logout},
	)
}

func (h *SessionHandler) GetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	state, err := h.uc.Load(ctx, auth.GetSessionToken(ctx))
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(state)
}

func (h *SessionHandler) UpdateSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateSessionInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	input.Token = auth.GetSessionToken(ctx)

	state, err := h.uc.Update(ctx, &input)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(state)
}

func (h *SessionHandler) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := h.uc.Logout(ctx, auth.GetSessionToken(ctx)); err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &structpb.Struct{}, nil
}

func (h *SessionHandler) toStatus(ctx context.Context, err error) error {
	if errors.Is(err, session.ErrMissingToken) {
		return status.Error(codes.Unauthenticated, err.Error())
	}
	h.logger.Error("session request failed", zap.Error(err))
	return rpc.Error(codes.Internal, auth.GetLocale(ctx), "internal_error")
}
