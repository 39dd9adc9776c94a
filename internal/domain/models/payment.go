package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current state of a payment
type PaymentStatus string

const (
	PaymentStatusForm     PaymentStatus = "form"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFail     PaymentStatus = "fail"
	PaymentStatusTimeout  PaymentStatus = "timeout"
	PaymentStatusRefund   PaymentStatus = "refund"
	PaymentStatusImported PaymentStatus = "imported"
	PaymentStatusPrepaid  PaymentStatus = "prepaid"
)

// AdditionalType classifies the surcharge amount carried by a payment
type AdditionalType string

const (
	// AdditionalTypeRecurrent marks a donation amount carried over into every
	// payment generated for the recurring chain
	AdditionalTypeRecurrent AdditionalType = "recurrent"
	AdditionalTypeSingle    AdditionalType = "single"
)

// Payment represents one billing transaction
type Payment struct {
	ID                 string
	Status             PaymentStatus
	Amount             decimal.Decimal
	GatewayCode        string
	UserID             string
	SubscriptionTypeID string // empty when the payment is not subscription backed
	VariableSymbol     string
	AdditionalAmount   decimal.Decimal
	AdditionalType     AdditionalType
	RecurrentCharge    bool
	Invoiceable        bool
	Note               string
	Items              []PaymentItem
	CreatedAt          time.Time
	PaidAt             *time.Time
}

// PaymentItemType tags the origin of a line item
type PaymentItemType string

const (
	PaymentItemTypeSubscription PaymentItemType = "subscription_type"
	PaymentItemTypeDonation     PaymentItemType = "donation"
	PaymentItemTypeCustom       PaymentItemType = "custom"
)

// PaymentItem is one line item of a payment. Items are derived at build time
// and never mutated afterwards, only replaced wholesale.
type PaymentItem struct {
	Name   string
	Amount decimal.Decimal // unit amount
	VAT    decimal.Decimal
	Count  int
	Type   PaymentItemType
}

// Total returns count x unit amount for the item
func (i PaymentItem) Total() decimal.Decimal {
	return i.Amount.Mul(decimal.NewFromInt(int64(i.Count)))
}

// ItemsTotal sums the line item totals of all items
func (p *Payment) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Total())
	}
	return total
}

// ChargeableItemsTotal sums line item totals excluding donation items.
// The donation line mirrors AdditionalAmount; summing both would double it.
func (p *Payment) ChargeableItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		if item.Type == PaymentItemTypeDonation {
			continue
		}
		total = total.Add(item.Total())
	}
	return total
}
