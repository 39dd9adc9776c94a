package charge

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/billing-service/internal/domain"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/testutil/fixtures"
)

func testBuilder(t *testing.T) *PaymentBuilder {
	t.Helper()
	vat := decimal.NewFromInt(20)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	return NewPaymentBuilder(&vat, "Donation", func() time.Time { return now })
}

func TestBuild_CarriesParentItemsWhenTypeUnchanged(t *testing.T) {
	b := testBuilder(t)

	subType := fixtures.NewSubscriptionType().Build()
	parent := fixtures.NewPayment().WithSubscriptionTypeID(subType.ID).Build()
	rp := fixtures.NewRecurrentPayment().
		WithSubscriptionTypeID(subType.ID).
		WithParentPaymentID(parent.ID).
		Build()

	payment, err := b.Build(rp, parent, subType, nil)
	require.NoError(t, err)

	require.Len(t, payment.Items, 1)
	assert.Equal(t, parent.Items[0].Name, payment.Items[0].Name)
	assert.True(t, payment.Items[0].Amount.Equal(parent.Items[0].Amount))
	assert.True(t, payment.Amount.Equal(parent.Amount))
	assert.Equal(t, models.PaymentStatusForm, payment.Status)
	assert.True(t, payment.RecurrentCharge)
	assert.NotEmpty(t, payment.VariableSymbol)
	assert.True(t, domain.PaymentAmountConsistent(payment))
}

func TestBuild_RecurringDonationCarriesOver(t *testing.T) {
	b := testBuilder(t)

	subType := fixtures.NewSubscriptionType().Build()
	donation := decimal.NewFromInt(5)
	parent := fixtures.NewPayment().
		WithSubscriptionTypeID(subType.ID).
		WithDonation(donation, decimal.NewFromInt(20)).
		Build()
	rp := fixtures.NewRecurrentPayment().
		WithSubscriptionTypeID(subType.ID).
		WithParentPaymentID(parent.ID).
		Build()

	payment, err := b.Build(rp, parent, subType, nil)
	require.NoError(t, err)

	// the donation line is re-added from additional_amount, never copied, so
	// it can never appear twice
	require.Len(t, payment.Items, 2)
	assert.Equal(t, models.PaymentItemTypeDonation, payment.Items[1].Type)
	assert.True(t, payment.Items[1].Amount.Equal(donation))
	assert.True(t, payment.AdditionalAmount.Equal(donation))
	assert.Equal(t, models.AdditionalTypeRecurrent, payment.AdditionalType)

	// 9.99 subscription + 5 donation
	assert.True(t, payment.Amount.Equal(decimal.NewFromFloat(14.99)), "got %s", payment.Amount)
	assert.True(t, domain.PaymentAmountConsistent(payment))
}

func TestBuild_SingleDonationDoesNotCarryOver(t *testing.T) {
	b := testBuilder(t)

	subType := fixtures.NewSubscriptionType().Build()
	parent := fixtures.NewPayment().
		WithSubscriptionTypeID(subType.ID).
		WithSingleDonation(decimal.NewFromInt(5)).
		Build()
	rp := fixtures.NewRecurrentPayment().
		WithSubscriptionTypeID(subType.ID).
		WithParentPaymentID(parent.ID).
		Build()

	payment, err := b.Build(rp, parent, subType, nil)
	require.NoError(t, err)

	assert.True(t, payment.AdditionalAmount.IsZero())
	assert.Empty(t, payment.AdditionalType)
	require.Len(t, payment.Items, 1)
	assert.True(t, payment.Amount.Equal(subType.Price))
}

func TestBuild_TypeChangedUsesCatalogItems(t *testing.T) {
	b := testBuilder(t)

	oldType := fixtures.NewSubscriptionType().Build()
	newType := fixtures.NewSubscriptionType().
		WithCode("annual_web").
		WithPrice(decimal.NewFromInt(99)).
		WithLengthDays(365).
		Build()
	parent := fixtures.NewPayment().WithSubscriptionTypeID(oldType.ID).Build()
	rp := fixtures.NewRecurrentPayment().
		WithSubscriptionTypeID(newType.ID).
		WithParentPaymentID(parent.ID).
		Build()

	payment, err := b.Build(rp, parent, newType, nil)
	require.NoError(t, err)

	require.Len(t, payment.Items, 1)
	assert.True(t, payment.Items[0].Amount.Equal(decimal.NewFromInt(99)))
	assert.Equal(t, newType.ID, payment.SubscriptionTypeID)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(99)))
}

func TestBuild_CustomAmountOverridesSingleItemPrice(t *testing.T) {
	b := testBuilder(t)

	subType := fixtures.NewSubscriptionType().Build()
	parent := fixtures.NewPayment().WithSubscriptionTypeID(subType.ID).Build()
	custom := decimal.NewFromFloat(4.99)
	rp := fixtures.NewRecurrentPayment().
		WithSubscriptionTypeID(subType.ID).
		WithParentPaymentID(parent.ID).
		WithCustomAmount(custom).
		Build()

	payment, err := b.Build(rp, parent, subType, &custom)
	require.NoError(t, err)

	require.Len(t, payment.Items, 1)
	assert.True(t, payment.Items[0].Amount.Equal(custom))
	assert.Equal(t, models.PaymentItemTypeCustom, payment.Items[0].Type)
	assert.True(t, payment.Amount.Equal(custom))
}

func TestBuild_CustomAmountOnMultiItemTypeFails(t *testing.T) {
	b := testBuilder(t)

	subType := fixtures.NewSubscriptionType().WithItems(
		models.SubscriptionTypeItem{Name: "print", Amount: decimal.NewFromInt(5), VAT: decimal.NewFromInt(20)},
		models.SubscriptionTypeItem{Name: "web", Amount: decimal.NewFromInt(5), VAT: decimal.NewFromInt(20)},
	).Build()
	parent := fixtures.NewPayment().WithSubscriptionTypeID(subType.ID).Build()
	custom := decimal.NewFromInt(7)
	rp := fixtures.NewRecurrentPayment().
		WithSubscriptionTypeID(subType.ID).
		WithParentPaymentID(parent.ID).
		WithCustomAmount(custom).
		Build()

	_, err := b.Build(rp, parent, subType, &custom)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeTokenCustomAmount, domain.GetErrorCode(err))
}

func TestBuild_MissingDonationVATRateIsFatal(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	b := NewPaymentBuilder(nil, "Donation", func() time.Time { return now })

	subType := fixtures.NewSubscriptionType().Build()
	parent := fixtures.NewPayment().
		WithSubscriptionTypeID(subType.ID).
		WithDonation(decimal.NewFromInt(5), decimal.NewFromInt(20)).
		Build()
	rp := fixtures.NewRecurrentPayment().
		WithSubscriptionTypeID(subType.ID).
		WithParentPaymentID(parent.ID).
		Build()

	_, err := b.Build(rp, parent, subType, nil)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeConfigMissing, domain.GetErrorCode(err))
	assert.True(t, domain.IsConfigError(err))
}

func TestBuild_NoParentChargesCatalog(t *testing.T) {
	b := testBuilder(t)

	subType := fixtures.NewSubscriptionType().Build()
	rp := fixtures.NewRecurrentPayment().WithSubscriptionTypeID(subType.ID).Build()

	payment, err := b.Build(rp, nil, subType, nil)
	require.NoError(t, err)

	require.Len(t, payment.Items, 1)
	assert.True(t, payment.Amount.Equal(subType.Price))
	assert.True(t, payment.AdditionalAmount.IsZero())
}
