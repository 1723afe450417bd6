package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/stock"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/dto"
	"go.uber.org/zap"
)

const (
	EventOrderPlaced      = "OrderPlaced"
	EventOrderCancelled   = "OrderCancelled"
	EventReturnRegistered = "ReturnRegistered"
	EventOrderDelivered   = "OrderDelivered"
	EventOrderSettled     = "OrderSettled"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (broker.Message, error)
}

// Invalidator drops cached data derived from open orders.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type StockListener struct {
	consumer    MessageReader
	uc          stock.UseCase
	invalidator Invalidator
	logger      logger.ZapLogger
}

func NewStockListener(consumer MessageReader, uc stock.UseCase, invalidator Invalidator, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer:    consumer,
		uc:          uc,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type OrderPayload struct {
	ID       string          `json:"id"`
	BranchID string          `json:"branch_id"`
	UserID   string          `json:"user_id"`
	Lines    []dto.LineInput `json:"lines"`
}

type ReturnPayload struct {
	ID       string             `json:"id"`
	OrderID  string             `json:"order_id"`
	BranchID string             `json:"branch_id"`
	UserID   string             `json:"user_id"`
	Kind     model.ReturnKind   `json:"kind"`
	Lines    []model.ReturnLine `json:"lines"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	// Any status change can move an order in or out of the open set.
	if l.invalidator != nil {
		l.invalidator.Invalidate(ctx)
	}

	var (
		res *dto.BatchResult
		err error
		ref string
	)
	switch event.EventType {
	case EventOrderPlaced, EventOrderCancelled:
		var p OrderPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			l.logger.Error("Failed to unmarshal order payload", zap.String("event_id", event.EventID), zap.Error(err))
			return
		}
		ref = p.ID
		input := &dto.SaleInput{BranchID: p.BranchID, OrderID: p.ID, Lines: p.Lines, UserID: p.UserID}
		if event.EventType == EventOrderPlaced {
			res, err = l.uc.ApplySale(ctx, input)
		} else {
			res, err = l.uc.ApplyCancellation(ctx, input)
		}
	case EventReturnRegistered:
		var p ReturnPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			l.logger.Error("Failed to unmarshal return payload", zap.String("event_id", event.EventID), zap.Error(err))
			return
		}
		ref = p.ID
		res, err = l.uc.ApplyReturn(ctx, &dto.ReturnInput{
			BranchID: p.BranchID,
			ReturnID: p.ID,
			OrderID:  p.OrderID,
			Kind:     p.Kind,
			Lines:    p.Lines,
			UserID:   p.UserID,
		})
	default:
		// Delivery, settlement and unknown events carry no stock change.
		l.logger.Debug("Order event without stock effect", zap.String("event_type", event.EventType))
		return
	}

	if err != nil {
		l.logger.Error("Failed to apply stock event",
			zap.String("event_type", event.EventType),
			zap.String("reference_id", ref),
			zap.Error(err),
		)
		return
	}

	fields := []zap.Field{
		zap.String("event_type", event.EventType),
		zap.String("reference_id", ref),
		zap.Int("applied", res.Applied),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	}
	if res.Partial() {
		l.logger.Warn("Stock event partially applied", fields...)
		return
	}
	l.logger.Info("Stock event applied", fields...)
}
