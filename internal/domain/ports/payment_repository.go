package ports

import (
	"context"
	"time"

	"github.com/kevin07696/billing-service/internal/domain/models"
)

// PaymentRepository is the ledger boundary for payments.
// Every method accepts an optional DBTX so writes can join the per-attempt
// transaction; a nil executor falls back to the pool.
type PaymentRepository interface {
	Create(ctx context.Context, tx DBTX, payment *models.Payment) error
	GetByID(ctx context.Context, tx DBTX, id string) (*models.Payment, error)
	// UpdateStatus persists a status change, stamping paid_at on the first
	// transition to paid. Callers validate the transition first.
	UpdateStatus(ctx context.Context, tx DBTX, id string, status models.PaymentStatus, paidAt *time.Time) error
}
