package domain

import (
	"time"

	"github.com/kevin07696/billing-service/internal/domain/models"
)

// ValidatePaymentTransition enforces the monotonic payment status rules.
// A payment that reached paid must never regress to fail; duplicate or
// out-of-order status updates are rejected here rather than written through.
func ValidatePaymentTransition(current, next models.PaymentStatus) error {
	if current == models.PaymentStatusPaid && next == models.PaymentStatusFail {
		return ErrStatusRegression
	}
	return nil
}

// ApplyPaymentStatus validates and applies a status transition on the payment,
// stamping PaidAt on the first transition to paid.
func ApplyPaymentStatus(p *models.Payment, next models.PaymentStatus, now time.Time) error {
	if err := ValidatePaymentTransition(p.Status, next); err != nil {
		return err
	}
	if next == models.PaymentStatusPaid && p.PaidAt == nil {
		paidAt := now
		p.PaidAt = &paidAt
	}
	p.Status = next
	return nil
}

// PaymentAmountConsistent reports whether the payment amount equals the sum of
// its line item totals plus the additional amount. The donation line item is
// the materialized form of AdditionalAmount and is excluded from the sum.
// Holds for every payment the charge engine builds.
func PaymentAmountConsistent(p *models.Payment) bool {
	return p.Amount.Equal(p.ChargeableItemsTotal().Add(p.AdditionalAmount))
}
