package ports

import (
	"context"

	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

// RecurrentPaymentResolver resolves what a chain node should actually charge:
// the effective subscription type (which may differ from the parent payment's
// after an upgrade) and an optional one-off amount override.
type RecurrentPaymentResolver interface {
	ResolveSubscriptionType(ctx context.Context, rp *models.RecurrentPayment) (*models.SubscriptionType, error)
	ResolveCustomChargeAmount(rp *models.RecurrentPayment) *decimal.Decimal
}
