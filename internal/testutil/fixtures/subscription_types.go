package fixtures

import (
	"github.com/google/uuid"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

// SubscriptionTypeBuilder provides fluent API for building test catalog entries.
type SubscriptionTypeBuilder struct {
	st *models.SubscriptionType
}

// NewSubscriptionType creates a builder with sensible defaults: a monthly
// single-item type.
func NewSubscriptionType() *SubscriptionTypeBuilder {
	price := decimal.NewFromFloat(9.99)
	return &SubscriptionTypeBuilder{
		st: &models.SubscriptionType{
			ID:         uuid.New().String(),
			Code:       "monthly_web",
			Name:       "Monthly subscription",
			Price:      price,
			LengthDays: 31,
			Items: []models.SubscriptionTypeItem{
				{Name: "Monthly subscription", Amount: price, VAT: decimal.NewFromInt(20)},
			},
		},
	}
}

func (b *SubscriptionTypeBuilder) WithID(id string) *SubscriptionTypeBuilder {
	b.st.ID = id
	return b
}

func (b *SubscriptionTypeBuilder) WithCode(code string) *SubscriptionTypeBuilder {
	b.st.Code = code
	return b
}

func (b *SubscriptionTypeBuilder) WithPrice(price decimal.Decimal) *SubscriptionTypeBuilder {
	b.st.Price = price
	if len(b.st.Items) == 1 {
		b.st.Items[0].Amount = price
	}
	return b
}

func (b *SubscriptionTypeBuilder) WithLengthDays(days int) *SubscriptionTypeBuilder {
	b.st.LengthDays = days
	return b
}

// WithItems replaces the catalog item set; used for multi-item (print+web) types.
func (b *SubscriptionTypeBuilder) WithItems(items ...models.SubscriptionTypeItem) *SubscriptionTypeBuilder {
	b.st.Items = items
	return b
}

func (b *SubscriptionTypeBuilder) Build() *models.SubscriptionType {
	st := *b.st
	st.Items = append([]models.SubscriptionTypeItem(nil), b.st.Items...)
	return &st
}
