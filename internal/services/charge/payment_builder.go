package charge

import (
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/billing-service/internal/domain"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

// PaymentBuilder assembles the payment record a chain node will charge,
// carrying line items over from the parent payment when the subscription type
// is unchanged, rebuilding them from the catalog when it changed, and applying
// one-off amount overrides.
type PaymentBuilder struct {
	donationVATRate  *decimal.Decimal
	donationItemName string
	now              func() time.Time
}

// NewPaymentBuilder creates a builder. donationVATRate may be nil when no
// chain in the system carries a donation; building a donation payment without
// it is a fatal configuration error.
func NewPaymentBuilder(donationVATRate *decimal.Decimal, donationItemName string, now func() time.Time) *PaymentBuilder {
	return &PaymentBuilder{
		donationVATRate:  donationVATRate,
		donationItemName: donationItemName,
		now:              now,
	}
}

// Build constructs a new payment for the chain node. parent is the payment
// that authorized the chain link; customAmount overrides the canonical
// subscription type price and is only chargeable for single-item types.
func (b *PaymentBuilder) Build(
	rp *models.RecurrentPayment,
	parent *models.Payment,
	subType *models.SubscriptionType,
	customAmount *decimal.Decimal,
) (*models.Payment, error) {
	additionalAmount := decimal.Zero
	var additionalType models.AdditionalType
	if parent != nil && parent.AdditionalType == models.AdditionalTypeRecurrent && parent.AdditionalAmount.IsPositive() {
		additionalType = models.AdditionalTypeRecurrent
		additionalAmount = parent.AdditionalAmount
	}

	items, err := b.buildItems(rp, parent, subType, customAmount)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:                 uuid.New().String(),
		Status:             models.PaymentStatusForm,
		GatewayCode:        rp.GatewayCode,
		UserID:             rp.UserID,
		SubscriptionTypeID: subType.ID,
		VariableSymbol:     NewVariableSymbol(b.now()),
		AdditionalAmount:   additionalAmount,
		AdditionalType:     additionalType,
		RecurrentCharge:    true,
		Invoiceable:        true,
		Items:              items,
		CreatedAt:          b.now(),
	}

	if additionalType == models.AdditionalTypeRecurrent && additionalAmount.IsPositive() {
		if b.donationVATRate == nil {
			return nil, domain.NewDomainError(domain.ErrorCodeConfigMissing,
				"DONATION_VAT_RATE is not set but chain carries a donation amount")
		}
		payment.Items = append(payment.Items, models.PaymentItem{
			Name:   b.donationItemName,
			Amount: additionalAmount,
			VAT:    *b.donationVATRate,
			Count:  1,
			Type:   models.PaymentItemTypeDonation,
		})
	}

	payment.Amount = payment.ChargeableItemsTotal().Add(additionalAmount)

	return payment, nil
}

func (b *PaymentBuilder) buildItems(
	rp *models.RecurrentPayment,
	parent *models.Payment,
	subType *models.SubscriptionType,
	customAmount *decimal.Decimal,
) ([]models.PaymentItem, error) {
	typeUnchanged := parent != nil &&
		subType.ID == parent.SubscriptionTypeID &&
		subType.ID == rp.SubscriptionTypeID

	switch {
	case typeUnchanged && customAmount == nil:
		// same subscription type as the previous period: carry the previous
		// line items over verbatim, minus the donation line, which is re-added
		// from additional_amount so it is never duplicated
		items := make([]models.PaymentItem, 0, len(parent.Items))
		for _, item := range parent.Items {
			if item.Name == b.donationItemName && item.Amount.Equal(parent.AdditionalAmount) {
				continue
			}
			items = append(items, models.PaymentItem{
				Name:   item.Name,
				Amount: item.Amount,
				VAT:    item.VAT,
				Count:  item.Count,
				Type:   models.PaymentItemTypeSubscription,
			})
		}
		return items, nil

	case customAmount == nil:
		// subscription type changed mid-chain: charge the new type's catalog items
		return catalogItems(subType), nil

	default:
		// custom amount replaces the price of the single catalog item; with
		// more than one item there is no defined way to split the override
		items := catalogItems(subType)
		if len(items) != 1 {
			return nil, domain.ErrUnchargeableCustomAmount.
				WithDetail("subscription_type_id", subType.ID).
				WithDetail("item_count", len(items))
		}
		items[0].Amount = *customAmount
		items[0].Type = models.PaymentItemTypeCustom
		return items, nil
	}
}

func catalogItems(subType *models.SubscriptionType) []models.PaymentItem {
	items := make([]models.PaymentItem, 0, len(subType.Items))
	for _, item := range subType.Items {
		items = append(items, models.PaymentItem{
			Name:   item.Name,
			Amount: item.Amount,
			VAT:    item.VAT,
			Count:  1,
			Type:   models.PaymentItemTypeSubscription,
		})
	}
	return items
}
