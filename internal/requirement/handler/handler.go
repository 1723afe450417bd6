package handler

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/auth"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/rpc"
	"github.com/fekuna/omnipos-uniform-service/internal/requirement"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "uniform.requirement.v1.RequirementService"

type RequirementHandler struct {
	uc     requirement.UseCase
	logger logger.ZapLogger
}

func NewRequirementHandler(uc requirement.UseCase, log logger.ZapLogger) *RequirementHandler {
	return &RequirementHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *RequirementHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Method{Name: "ComputeRequirements", Handler: h.ComputeRequirements},
	)
}

type requirementEntry struct {
	SupplyID       string  `json:"supply_id"`
	Name           string  `json:"name"`
	Code           string  `json:"code"`
	QuantityNeeded float64 `json:"quantity_needed"`
	UnitName       string  `json:"unit_name"`
}

func (h *RequirementHandler) ComputeRequirements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	reqs, err := h.uc.ComputeRequirements(ctx)
	if err != nil {
		h.logger.Error("failed to compute supply requirements", zap.Error(err))
		return nil, rpc.Error(codes.Unavailable, auth.GetLocale(ctx), "requirements_failed")
	}

	items := make([]requirementEntry, len(reqs))
	for i, r := range reqs {
		items[i] = requirementEntry{
			SupplyID:       r.SupplyID,
			Name:           r.Name,
			Code:           r.Code,
			QuantityNeeded: r.QuantityNeeded.InexactFloat64(),
			UnitName:       r.UnitName,
		}
	}
	return rpc.Encode(map[string]interface{}{"requirements": items})
}
