package fixtures

import (
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

// PaymentBuilder provides fluent API for building test payments.
type PaymentBuilder struct {
	payment *models.Payment
}

// NewPayment creates a builder with sensible defaults: a paid recurring
// subscription payment with a single line item.
func NewPayment() *PaymentBuilder {
	now := time.Now().UTC()
	paidAt := now
	return &PaymentBuilder{
		payment: &models.Payment{
			ID:                 uuid.New().String(),
			Status:             models.PaymentStatusPaid,
			Amount:             decimal.NewFromFloat(9.99),
			GatewayCode:        "cardpay",
			UserID:             uuid.New().String(),
			SubscriptionTypeID: uuid.New().String(),
			VariableSymbol:     "2501011200" + "0001",
			RecurrentCharge:    true,
			Invoiceable:        true,
			Items: []models.PaymentItem{
				{
					Name:   "Monthly subscription",
					Amount: decimal.NewFromFloat(9.99),
					VAT:    decimal.NewFromInt(20),
					Count:  1,
					Type:   models.PaymentItemTypeSubscription,
				},
			},
			CreatedAt: now,
			PaidAt:    &paidAt,
		},
	}
}

func (b *PaymentBuilder) WithID(id string) *PaymentBuilder {
	b.payment.ID = id
	return b
}

func (b *PaymentBuilder) WithStatus(status models.PaymentStatus) *PaymentBuilder {
	b.payment.Status = status
	return b
}

func (b *PaymentBuilder) Unpaid() *PaymentBuilder {
	b.payment.Status = models.PaymentStatusForm
	b.payment.PaidAt = nil
	return b
}

func (b *PaymentBuilder) WithAmount(amount decimal.Decimal) *PaymentBuilder {
	b.payment.Amount = amount
	return b
}

func (b *PaymentBuilder) WithUserID(userID string) *PaymentBuilder {
	b.payment.UserID = userID
	return b
}

func (b *PaymentBuilder) WithSubscriptionTypeID(id string) *PaymentBuilder {
	b.payment.SubscriptionTypeID = id
	return b
}

// WithDonation marks the payment as carrying a recurring donation of the given
// amount, including its mirrored line item.
func (b *PaymentBuilder) WithDonation(amount decimal.Decimal, vat decimal.Decimal) *PaymentBuilder {
	b.payment.AdditionalAmount = amount
	b.payment.AdditionalType = models.AdditionalTypeRecurrent
	b.payment.Items = append(b.payment.Items, models.PaymentItem{
		Name:   "Donation",
		Amount: amount,
		VAT:    vat,
		Count:  1,
		Type:   models.PaymentItemTypeDonation,
	})
	b.payment.Amount = b.payment.Amount.Add(amount)
	return b
}

// WithSingleDonation marks a one-off donation that must not carry over.
func (b *PaymentBuilder) WithSingleDonation(amount decimal.Decimal) *PaymentBuilder {
	b.payment.AdditionalAmount = amount
	b.payment.AdditionalType = models.AdditionalTypeSingle
	return b
}

func (b *PaymentBuilder) WithItems(items ...models.PaymentItem) *PaymentBuilder {
	b.payment.Items = items
	return b
}

func (b *PaymentBuilder) WithPaidAt(t time.Time) *PaymentBuilder {
	b.payment.PaidAt = &t
	return b
}

func (b *PaymentBuilder) WithCreatedAt(t time.Time) *PaymentBuilder {
	b.payment.CreatedAt = t
	return b
}

func (b *PaymentBuilder) Build() *models.Payment {
	p := *b.payment
	p.Items = append([]models.PaymentItem(nil), b.payment.Items...)
	if b.payment.PaidAt != nil {
		paidAt := *b.payment.PaidAt
		p.PaidAt = &paidAt
	}
	return &p
}
