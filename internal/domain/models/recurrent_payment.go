package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurrentPaymentState represents the lifecycle state of a chain node
type RecurrentPaymentState string

const (
	RecurrentStateActive       RecurrentPaymentState = "active"
	RecurrentStateCharged      RecurrentPaymentState = "charged"
	RecurrentStateChargeFailed RecurrentPaymentState = "charge_failed"
	RecurrentStateSystemStop   RecurrentPaymentState = "system_stop"
)

// RecurrentPayment is one node of a recurring authorization chain: a gateway
// card token scheduled for a single charge attempt. Successor nodes are created
// by the charge engine after each attempt; the initiating node is only ever
// updated in place, never deleted.
type RecurrentPayment struct {
	ID                 string
	CID                string // gateway customer/card token
	UserID             string
	GatewayCode        string
	ParentPaymentID    string
	PaymentID          string // payment charged by this attempt, empty until built
	SubscriptionTypeID string
	CustomAmount       *decimal.Decimal // overrides the subscription type price when set
	Retries            int              // remaining attempt budget
	ChargeAt           time.Time
	State              RecurrentPaymentState
	Status             string // last gateway result code
	Approval           string // last gateway result message
	Note               string
	CreatedAt          time.Time
}
