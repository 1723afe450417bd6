package stock

import (
	"errors"
	"fmt"
)

var (
	ErrCostNotFound  = errors.New("cost row not found")
	ErrMissingBranch = errors.New("branch is required")
	ErrEmptyBatch    = errors.New("no lines to apply")
	ErrCostExists    = errors.New("cost row already exists")
)

// AdjustmentError tells which adjustment of a batch failed.
type AdjustmentError struct {
	Index int
	Err   error
}

func (e *AdjustmentError) Error() string {
	return fmt.Sprintf("adjustment %d: %v", e.Index, e.Err)
}

func (e *AdjustmentError) Unwrap() error {
	return e.Err
}
