package models

import "github.com/shopspring/decimal"

// SubscriptionType is the catalog entry a recurring payment charges for
type SubscriptionType struct {
	ID         string
	Code       string
	Name       string
	Price      decimal.Decimal
	LengthDays int // subscription period used to schedule the next chain link
	Items      []SubscriptionTypeItem
}

// SubscriptionTypeItem is one canonical line item of a subscription type
type SubscriptionTypeItem struct {
	Name   string
	Amount decimal.Decimal
	VAT    decimal.Decimal
}
