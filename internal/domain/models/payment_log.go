package models

import "time"

// PaymentLogResult is the coarse outcome recorded for a charge attempt
type PaymentLogResult string

const (
	PaymentLogOK    PaymentLogResult = "OK"
	PaymentLogError PaymentLogResult = "ERROR"
)

// PaymentLog is an append-only audit record of one gateway attempt.
// Entries are never mutated or deleted.
type PaymentLog struct {
	ID        string
	Result    PaymentLogResult
	Message   string // raw gateway response payload, JSON encoded
	SourceURL string // context tag, e.g. recurring-payment-automatic-charge
	PaymentID string
	CreatedAt time.Time
}
