package events

import "github.com/kevin07696/billing-service/internal/domain/models"

// PaymentStatusChanged is emitted after a payment status transition is persisted
type PaymentStatusChanged struct {
	PaymentID string
	From      models.PaymentStatus
	To        models.PaymentStatus
}

// RecurrentChargeFailTry is emitted when a charge attempt failed but the chain
// continues with a scheduled successor
type RecurrentChargeFailTry struct {
	RecurrentPaymentID string
	PaymentID          string
	UserID             string
	CID                string
	ResultCode         string
}

// RecurrentChargeFailStop is emitted when a charge attempt terminated the chain
type RecurrentChargeFailStop struct {
	RecurrentPaymentID string
	PaymentID          string
	UserID             string
	CID                string
	ResultCode         string
}
