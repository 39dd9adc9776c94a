package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/domain/ports"
)

// CardPayCode is the registry code of the card gateway
const CardPayCode = "cardpay"

// CardPayAdapter charges stored card tokens through the CardPay recurring API
// and normalizes its response codes into the four charge outcomes. Implements
// ports.ChargeGateway.
type CardPayAdapter struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient ports.HTTPClient
	logger     ports.Logger
}

// NewCardPayAdapter creates a CardPay adapter with dependency injection
func NewCardPayAdapter(baseURL, apiKey string, timeout time.Duration, httpClient ports.HTTPClient, logger ports.Logger) *CardPayAdapter {
	return &CardPayAdapter{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

type cardPayChargeRequest struct {
	Token          string `json:"token"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	VariableSymbol string `json:"variableSymbol"`
	Recurring      bool   `json:"recurring"`
}

type cardPayChargeResponse struct {
	ResultCode string `json:"resultCode"`
	ResultText string `json:"resultText"`
	Approval   string `json:"approvalCode,omitempty"`
}

// classification maps CardPay result codes onto charge outcomes. Codes not
// listed are permanent declines: an unknown code must never loop a charge.
var classification = map[string]models.ChargeOutcome{
	"00": models.ChargeOutcomeSuccess, // approved
	"51": models.ChargeOutcomeFailTry, // insufficient funds
	"54": models.ChargeOutcomeFailTry, // expired card, may be reissued
	"91": models.ChargeOutcomeFailTry, // issuer unavailable
	"96": models.ChargeOutcomeFailTry, // system malfunction at issuer
	"04": models.ChargeOutcomeFailStop, // pick up card
	"14": models.ChargeOutcomeFailStop, // invalid card number
	"41": models.ChargeOutcomeFailStop, // lost card
	"43": models.ChargeOutcomeFailStop, // stolen card
	"59": models.ChargeOutcomeFailStop, // suspected fraud
	"62": models.ChargeOutcomeFailStop, // restricted card
}

// Charge bills the stored token for the payment amount. Transport failures
// and timeouts are returned as gateway-fail results so the caller reschedules
// without consuming the retry budget.
func (a *CardPayAdapter) Charge(ctx context.Context, payment *models.Payment, cid string) (*models.ChargeResult, error) {
	body, err := json.Marshal(cardPayChargeRequest{
		Token:          cid,
		Amount:         payment.Amount.StringFixed(2),
		Currency:       "EUR",
		VariableSymbol: payment.VariableSymbol,
		Recurring:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/recurring/charge", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		code := "gateway_fail"
		if errors.Is(err, context.DeadlineExceeded) {
			code = "gateway_timeout"
		}
		a.logger.Warn("cardpay charge transport failure",
			ports.String("variable_symbol", payment.VariableSymbol),
			ports.Err(err))
		return transportFailResult(code, err), nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return transportFailResult("gateway_fail", err), nil
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return &models.ChargeResult{
			Outcome:       models.ChargeOutcomeGatewayFail,
			ResultCode:    fmt.Sprintf("http_%d", resp.StatusCode),
			ResultMessage: http.StatusText(resp.StatusCode),
			Response:      raw,
		}, nil
	}

	var parsed cardPayChargeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &models.ChargeResult{
			Outcome:       models.ChargeOutcomeGatewayFail,
			ResultCode:    "gateway_bad_response",
			ResultMessage: err.Error(),
			Response:      raw,
		}, nil
	}

	outcome, ok := classification[parsed.ResultCode]
	if !ok {
		outcome = models.ChargeOutcomeFailStop
	}

	return &models.ChargeResult{
		Outcome:       outcome,
		ResultCode:    parsed.ResultCode,
		ResultMessage: parsed.ResultText,
		Response:      raw,
	}, nil
}

func transportFailResult(code string, err error) *models.ChargeResult {
	raw, _ := json.Marshal(map[string]string{"error": err.Error()})
	return &models.ChargeResult{
		Outcome:       models.ChargeOutcomeGatewayFail,
		ResultCode:    code,
		ResultMessage: err.Error(),
		Response:      raw,
	}
}
