package ports

import (
	"context"

	"github.com/kevin07696/billing-service/internal/domain/models"
)

// ChargeGateway is the contract every external charge gateway must satisfy.
// Charge attempts to bill the stored card token for the payment amount and
// normalizes the native response into one of the four charge outcomes. The
// returned result is always non-nil when err is nil; transport failures are
// reported either as an error or as a ChargeOutcomeGatewayFail result, and the
// engine treats both identically.
type ChargeGateway interface {
	Charge(ctx context.Context, payment *models.Payment, cid string) (*models.ChargeResult, error)
}

// GatewayRegistry resolves a gateway code to its registered implementation
type GatewayRegistry interface {
	Get(code string) (ChargeGateway, error)
}
