package ports

import (
	"context"
	"time"
)

// BatchSummary is the result of one charge batch run
type BatchSummary struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
}

// RunOptions selects how the batch charges tokens
type RunOptions struct {
	// TestCharge routes every token to the registered test gateway instead of
	// its real one; ledger writes still happen
	TestCharge bool
}

// ChargeService runs the recurrent charge batch
type ChargeService interface {
	// RunBatch processes every due token once. Individual token failures are
	// absorbed into the summary; only fatal configuration errors are returned.
	RunBatch(ctx context.Context, opts RunOptions) (*BatchSummary, error)
}
