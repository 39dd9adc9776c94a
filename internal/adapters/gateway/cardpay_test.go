package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/billing-service/internal/adapters/logger"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/testutil/fixtures"
)

// stubHTTPClient replays a canned response or error and captures the request
type stubHTTPClient struct {
	response *http.Response
	err      error
	lastReq  *http.Request
	lastBody []byte
}

func (c *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	if req.Body != nil {
		c.lastBody, _ = io.ReadAll(req.Body)
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.response, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestAdapter(client *stubHTTPClient) *CardPayAdapter {
	return NewCardPayAdapter("https://gateway.example.com", "api-key", 5*time.Second, client, logger.Wrap(zap.NewNop()))
}

func TestCardPayCharge_Approved(t *testing.T) {
	client := &stubHTTPClient{
		response: jsonResponse(http.StatusOK, `{"resultCode":"00","resultText":"approved","approvalCode":"A1234"}`),
	}
	adapter := newTestAdapter(client)
	payment := fixtures.NewPayment().Build()

	res, err := adapter.Charge(context.Background(), payment, "card-token-1")
	require.NoError(t, err)

	assert.Equal(t, models.ChargeOutcomeSuccess, res.Outcome)
	assert.Equal(t, "00", res.ResultCode)
	assert.Equal(t, "approved", res.ResultMessage)
	assert.True(t, res.Successful())

	// request carries the token, amount and auth header
	assert.Equal(t, "https://gateway.example.com/v1/recurring/charge", client.lastReq.URL.String())
	assert.Equal(t, "Bearer api-key", client.lastReq.Header.Get("Authorization"))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(client.lastBody, &sent))
	assert.Equal(t, "card-token-1", sent["token"])
	assert.Equal(t, payment.Amount.StringFixed(2), sent["amount"])
	assert.Equal(t, true, sent["recurring"])
}

func TestCardPayCharge_DeclineClassification(t *testing.T) {
	tests := []struct {
		code string
		want models.ChargeOutcome
	}{
		{"51", models.ChargeOutcomeFailTry},  // insufficient funds
		{"54", models.ChargeOutcomeFailTry},  // expired card
		{"91", models.ChargeOutcomeFailTry},  // issuer unavailable
		{"14", models.ChargeOutcomeFailStop}, // invalid card number
		{"59", models.ChargeOutcomeFailStop}, // suspected fraud
		{"41", models.ChargeOutcomeFailStop}, // lost card
		{"ZZ", models.ChargeOutcomeFailStop}, // unknown codes never loop
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			client := &stubHTTPClient{
				response: jsonResponse(http.StatusOK, `{"resultCode":"`+tt.code+`","resultText":"declined"}`),
			}
			adapter := newTestAdapter(client)

			res, err := adapter.Charge(context.Background(), fixtures.NewPayment().Build(), "tok")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.code, res.ResultCode)
			assert.False(t, res.Successful())
		})
	}
}

func TestCardPayCharge_TransportErrorIsGatewayFail(t *testing.T) {
	client := &stubHTTPClient{err: errors.New("connection refused")}
	adapter := newTestAdapter(client)

	res, err := adapter.Charge(context.Background(), fixtures.NewPayment().Build(), "tok")
	require.NoError(t, err)

	assert.Equal(t, models.ChargeOutcomeGatewayFail, res.Outcome)
	assert.Equal(t, "gateway_fail", res.ResultCode)
	assert.Contains(t, string(res.Response), "connection refused")
}

func TestCardPayCharge_TimeoutIsGatewayTimeout(t *testing.T) {
	client := &stubHTTPClient{err: context.DeadlineExceeded}
	adapter := newTestAdapter(client)

	res, err := adapter.Charge(context.Background(), fixtures.NewPayment().Build(), "tok")
	require.NoError(t, err)

	assert.Equal(t, models.ChargeOutcomeGatewayFail, res.Outcome)
	assert.Equal(t, "gateway_timeout", res.ResultCode)
}

func TestCardPayCharge_ServerErrorIsGatewayFail(t *testing.T) {
	client := &stubHTTPClient{response: jsonResponse(http.StatusBadGateway, `upstream unavailable`)}
	adapter := newTestAdapter(client)

	res, err := adapter.Charge(context.Background(), fixtures.NewPayment().Build(), "tok")
	require.NoError(t, err)

	assert.Equal(t, models.ChargeOutcomeGatewayFail, res.Outcome)
	assert.Equal(t, "http_502", res.ResultCode)
}

func TestCardPayCharge_MalformedBodyIsGatewayFail(t *testing.T) {
	client := &stubHTTPClient{response: jsonResponse(http.StatusOK, `<html>not json</html>`)}
	adapter := newTestAdapter(client)

	res, err := adapter.Charge(context.Background(), fixtures.NewPayment().Build(), "tok")
	require.NoError(t, err)

	assert.Equal(t, models.ChargeOutcomeGatewayFail, res.Outcome)
	assert.Equal(t, "gateway_bad_response", res.ResultCode)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	testGw := NewTestGateway()
	r.Register("test", testGw)

	got, err := r.Get("test")
	require.NoError(t, err)
	assert.Same(t, testGw, got.(*TestGateway))

	_, err = r.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestTestGateway_AlwaysApproves(t *testing.T) {
	gw := NewTestGateway()

	res, err := gw.Charge(context.Background(), fixtures.NewPayment().Build(), "tok")
	require.NoError(t, err)

	assert.Equal(t, models.ChargeOutcomeSuccess, res.Outcome)
	assert.Equal(t, "00", res.ResultCode)
	assert.True(t, res.Successful())
}
