package gateway

import (
	"context"
	"encoding/json"

	"github.com/kevin07696/billing-service/internal/domain/models"
)

// TestGateway approves every charge without touching the network. The batch
// routes tokens here in test-charge mode; ledger writes still happen so a
// dry run exercises the full persistence path.
type TestGateway struct{}

// NewTestGateway creates the always-approve test gateway
func NewTestGateway() *TestGateway {
	return &TestGateway{}
}

// Charge approves the payment unconditionally
func (g *TestGateway) Charge(_ context.Context, payment *models.Payment, cid string) (*models.ChargeResult, error) {
	raw, _ := json.Marshal(map[string]string{
		"resultCode":     "00",
		"resultText":     "test approval",
		"variableSymbol": payment.VariableSymbol,
		"token":          cid,
	})
	return &models.ChargeResult{
		Outcome:       models.ChargeOutcomeSuccess,
		ResultCode:    "00",
		ResultMessage: "test approval",
		Response:      raw,
	}, nil
}
