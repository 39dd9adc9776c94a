package ports

import (
	"context"
	"time"

	"github.com/kevin07696/billing-service/internal/domain/models"
)

// RecurrentPaymentRepository is the ledger boundary for recurring chain nodes
type RecurrentPaymentRepository interface {
	// ListChargeable returns active tokens whose charge_at is due at now,
	// oldest first
	ListChargeable(ctx context.Context, tx DBTX, now time.Time, limit int32) ([]*models.RecurrentPayment, error)
	// LastCharged returns the most recent token in the same chain (same card
	// token) that reached the charged state, or nil when none exists
	LastCharged(ctx context.Context, tx DBTX, rp *models.RecurrentPayment) (*models.RecurrentPayment, error)
	// Create inserts a successor chain node
	Create(ctx context.Context, tx DBTX, rp *models.RecurrentPayment) error
	// Update persists in-place mutations of an existing node
	// (payment link, state, status, approval, note)
	Update(ctx context.Context, tx DBTX, rp *models.RecurrentPayment) error
}
