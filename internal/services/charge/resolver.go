package charge

import (
	"context"
	"fmt"

	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/domain/ports"
	"github.com/shopspring/decimal"
)

// Resolver determines what a chain node actually charges: the effective
// subscription type and an optional one-off amount override. Implements
// ports.RecurrentPaymentResolver.
type Resolver struct {
	subTypes ports.SubscriptionTypeRepository
}

// NewResolver creates a resolver backed by the subscription type catalog
func NewResolver(subTypes ports.SubscriptionTypeRepository) *Resolver {
	return &Resolver{subTypes: subTypes}
}

// ResolveSubscriptionType returns the subscription type the node charges for.
// The node's own subscription type wins; it diverges from the parent payment's
// after an upgrade or downgrade mid-chain.
func (r *Resolver) ResolveSubscriptionType(ctx context.Context, rp *models.RecurrentPayment) (*models.SubscriptionType, error) {
	if rp.SubscriptionTypeID == "" {
		return nil, fmt.Errorf("recurrent payment %s has no subscription type", rp.ID)
	}
	subType, err := r.subTypes.GetByID(ctx, nil, rp.SubscriptionTypeID)
	if err != nil {
		return nil, fmt.Errorf("resolve subscription type %s: %w", rp.SubscriptionTypeID, err)
	}
	return subType, nil
}

// ResolveCustomChargeAmount returns the amount override for this attempt,
// or nil when the canonical subscription type price applies
func (r *Resolver) ResolveCustomChargeAmount(rp *models.RecurrentPayment) *decimal.Decimal {
	if rp.CustomAmount == nil || rp.CustomAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	amount := *rp.CustomAmount
	return &amount
}
