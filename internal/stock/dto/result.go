package dto

import "github.com/fekuna/omnipos-uniform-service/internal/model"

type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped" // cost row absent
	OutcomeFailed  Outcome = "failed"
)

// AdjustmentResult reports what happened to one stock adjustment. Line is
// the index of the input line that produced it; an exchange line produces
// two results with the same Line.
type AdjustmentResult struct {
	Line         int            `json:"line"`
	Key          model.StockKey `json:"key"`
	Delta        int            `json:"delta"`
	MovementType string         `json:"movement_type"`
	Outcome      Outcome        `json:"outcome"`
	StockBefore  int            `json:"stock_before"`
	StockAfter   int            `json:"stock_after"`
	Error        string         `json:"error,omitempty"`
}

type BatchResult struct {
	Results    []AdjustmentResult `json:"results"`
	Applied    int                `json:"applied"`
	Skipped    int                `json:"skipped"`
	Failed     int                `json:"failed"`
	Atomic     bool               `json:"atomic"`
	RolledBack bool               `json:"rolled_back"`
}

// Partial reports whether at least one adjustment was not applied.
func (b *BatchResult) Partial() bool {
	return b.Skipped > 0 || b.Failed > 0
}

func (b *BatchResult) Add(r AdjustmentResult) {
	switch r.Outcome {
	case OutcomeApplied:
		b.Applied++
	case OutcomeSkipped:
		b.Skipped++
	default:
		b.Failed++
	}
	b.Results = append(b.Results, r)
}
