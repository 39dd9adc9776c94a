package fixtures

import (
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

// RecurrentPaymentBuilder provides fluent API for building test chain nodes.
type RecurrentPaymentBuilder struct {
	rp *models.RecurrentPayment
}

// NewRecurrentPayment creates a builder with sensible defaults: an active
// node due now, with a full retry budget.
func NewRecurrentPayment() *RecurrentPaymentBuilder {
	now := time.Now().UTC()
	return &RecurrentPaymentBuilder{
		rp: &models.RecurrentPayment{
			ID:                 uuid.New().String(),
			CID:                "card-token-" + uuid.New().String()[:8],
			UserID:             uuid.New().String(),
			GatewayCode:        "cardpay",
			SubscriptionTypeID: uuid.New().String(),
			Retries:            2,
			ChargeAt:           now,
			State:              models.RecurrentStateActive,
			CreatedAt:          now,
		},
	}
}

func (b *RecurrentPaymentBuilder) WithID(id string) *RecurrentPaymentBuilder {
	b.rp.ID = id
	return b
}

func (b *RecurrentPaymentBuilder) WithCID(cid string) *RecurrentPaymentBuilder {
	b.rp.CID = cid
	return b
}

func (b *RecurrentPaymentBuilder) WithUserID(userID string) *RecurrentPaymentBuilder {
	b.rp.UserID = userID
	return b
}

func (b *RecurrentPaymentBuilder) WithGatewayCode(code string) *RecurrentPaymentBuilder {
	b.rp.GatewayCode = code
	return b
}

func (b *RecurrentPaymentBuilder) WithParentPaymentID(id string) *RecurrentPaymentBuilder {
	b.rp.ParentPaymentID = id
	return b
}

func (b *RecurrentPaymentBuilder) WithPaymentID(id string) *RecurrentPaymentBuilder {
	b.rp.PaymentID = id
	return b
}

func (b *RecurrentPaymentBuilder) WithSubscriptionTypeID(id string) *RecurrentPaymentBuilder {
	b.rp.SubscriptionTypeID = id
	return b
}

func (b *RecurrentPaymentBuilder) WithCustomAmount(amount decimal.Decimal) *RecurrentPaymentBuilder {
	b.rp.CustomAmount = &amount
	return b
}

func (b *RecurrentPaymentBuilder) WithRetries(retries int) *RecurrentPaymentBuilder {
	b.rp.Retries = retries
	return b
}

func (b *RecurrentPaymentBuilder) WithChargeAt(t time.Time) *RecurrentPaymentBuilder {
	b.rp.ChargeAt = t
	return b
}

func (b *RecurrentPaymentBuilder) WithState(state models.RecurrentPaymentState) *RecurrentPaymentBuilder {
	b.rp.State = state
	return b
}

func (b *RecurrentPaymentBuilder) Charged() *RecurrentPaymentBuilder {
	b.rp.State = models.RecurrentStateCharged
	return b
}

func (b *RecurrentPaymentBuilder) Build() *models.RecurrentPayment {
	rp := *b.rp
	if rp.CustomAmount != nil {
		amount := *rp.CustomAmount
		rp.CustomAmount = &amount
	}
	return &rp
}
