package handler

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-uniform-service/internal/auth"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/rpc"
	"github.com/fekuna/omnipos-uniform-service/internal/stock"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "uniform.stock.v1.StockService"

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Method{Name: "ApplySale", Handler: h.ApplySale},
		rpc.Method{Name: "ApplyCancellation", Handler: h.ApplyCancellation},
		rpc.Method{Name: "ApplyReturn", Handler: h.ApplyReturn},
		rpc.Method{Name: "AdjustStock", Handler: h.AdjustStock},
		rpc.Method{Name: "PriceCost", Handler: h.PriceCost},
		rpc.Method{Name: "GetStock", Handler: h.GetStock},
		rpc.Method{Name: "ListLowStock", Handler: h.ListLowStock},
		rpc.Method{Name: "ListMovements", Handler: h.ListMovements},
	)
}

type keyRequest struct {
	GarmentID string `json:"garment_id"`
	SizeID    string `json:"size_id"`
	BranchID  string `json:"branch_id"`
}

func (k keyRequest) toKey(ctx context.Context) model.StockKey {
	branchID := k.BranchID
	if branchID == "" {
		branchID = auth.GetBranchID(ctx)
	}
	return model.StockKey{GarmentID: k.GarmentID, SizeID: k.SizeID, BranchID: branchID}
}

type adjustRequest struct {
	keyRequest
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
}

type priceRequest struct {
	keyRequest
	MinStock       int             `json:"min_stock"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
}

type listRequest struct {
	BranchID     string `json:"branch_id"`
	GarmentID    string `json:"garment_id"`
	SizeID       string `json:"size_id"`
	MovementType string `json:"movement_type"`
	ReferenceID  string `json:"reference_id"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
}

func (h *StockHandler) ApplySale(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.applyLines(ctx, req, h.uc.ApplySale)
}

func (h *StockHandler) ApplyCancellation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.applyLines(ctx, req, h.uc.ApplyCancellation)
}

func (h *StockHandler) applyLines(ctx context.Context, req *structpb.Struct, apply func(context.Context, *dto.SaleInput) (*dto.BatchResult, error)) (*structpb.Struct, error) {
	var input dto.SaleInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	if input.BranchID == "" {
		input.BranchID = auth.GetBranchID(ctx)
	}
	input.UserID = auth.GetUserID(ctx)

	res, err := apply(ctx, &input)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return h.batchResponse(ctx, res)
}

func (h *StockHandler) ApplyReturn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.ReturnInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	if input.BranchID == "" {
		input.BranchID = auth.GetBranchID(ctx)
	}
	input.UserID = auth.GetUserID(ctx)

	res, err := h.uc.ApplyReturn(ctx, &input)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return h.batchResponse(ctx, res)
}

// batchResponse always returns the per-line result; partial application is
// flagged in the payload rather than as an RPC error.
func (h *StockHandler) batchResponse(ctx context.Context, res *dto.BatchResult) (*structpb.Struct, error) {
	payload := struct {
		*dto.BatchResult
		Partial bool   `json:"partial"`
		Message string `json:"message,omitempty"`
	}{BatchResult: res, Partial: res.Partial()}
	if payload.Partial {
		payload.Message = i18n.T(auth.GetLocale(ctx), "partial_application")
	}
	return rpc.Encode(payload)
}

func (h *StockHandler) AdjustStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in adjustRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}

	mv, err := h.uc.AdjustStock(ctx, &dto.AdjustStockInput{
		Key:            in.toKey(ctx),
		QuantityChange: in.QuantityChange,
		Reason:         in.Reason,
		UserID:         auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(mv)
}

func (h *StockHandler) PriceCost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in priceRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}

	cost, err := h.uc.PriceCost(ctx, &dto.PriceCostInput{
		Key:            in.toKey(ctx),
		MinStock:       in.MinStock,
		WholesalePrice: in.WholesalePrice,
		RetailPrice:    in.RetailPrice,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(cost)
}

func (h *StockHandler) GetStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in keyRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}

	cost, err := h.uc.GetStock(ctx, in.toKey(ctx))
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return rpc.Encode(cost)
}

func (h *StockHandler) ListLowStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	if in.BranchID == "" {
		in.BranchID = auth.GetBranchID(ctx)
	}

	items, count, err := h.uc.ListLowStock(ctx, in.BranchID, in.Page, in.PageSize)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	if items == nil {
		items = []model.Cost{}
	}
	return rpc.Encode(map[string]interface{}{"items": items, "total": count})
}

func (h *StockHandler) ListMovements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, rpc.Error(codes.InvalidArgument, auth.GetLocale(ctx), "invalid_request")
	}
	if in.BranchID == "" {
		in.BranchID = auth.GetBranchID(ctx)
	}

	mvs, count, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		BranchID:     in.BranchID,
		GarmentID:    in.GarmentID,
		SizeID:       in.SizeID,
		MovementType: in.MovementType,
		ReferenceID:  in.ReferenceID,
		Page:         in.Page,
		PageSize:     in.PageSize,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	if mvs == nil {
		mvs = []model.StockMovement{}
	}
	return rpc.Encode(map[string]interface{}{"movements": mvs, "total": count})
}

func (h *StockHandler) toStatus(ctx context.Context, err error) error {
	lang := auth.GetLocale(ctx)
	switch {
	case errors.Is(err, stock.ErrMissingBranch):
		return rpc.Error(codes.InvalidArgument, lang, "missing_branch")
	case errors.Is(err, stock.ErrEmptyBatch):
		return rpc.Error(codes.InvalidArgument, lang, "invalid_request")
	case errors.Is(err, stock.ErrCostNotFound):
		return rpc.Error(codes.NotFound, lang, "cost_not_found")
	}
	h.logger.Error("stock request failed", zap.Error(err))
	return rpc.Error(codes.Internal, lang, "internal_error")
}
