package cron

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kevin07696/billing-service/internal/services/ports"
	"go.uber.org/zap"
)

// ChargeHandler exposes the recurrent charge batch as a cron-triggered endpoint
type ChargeHandler struct {
	chargeService ports.ChargeService
	logger        *zap.Logger
	cronSecret    string // Secret token for authenticating cron requests
}

// NewChargeHandler creates a new charge cron handler
func NewChargeHandler(chargeService ports.ChargeService, logger *zap.Logger, cronSecret string) *ChargeHandler {
	return &ChargeHandler{
		chargeService: chargeService,
		logger:        logger,
		cronSecret:    cronSecret,
	}
}

// RunChargeRequest represents the request body for a manual batch trigger
type RunChargeRequest struct {
	TestCharge *bool `json:"test_charge"` // Optional: route charges to the test gateway
}

// RunChargeResponse represents the response from a batch run
type RunChargeResponse struct {
	Success     bool   `json:"success"`
	Attempted   int    `json:"attempted"`
	Succeeded   int    `json:"succeeded"`
	Failed      int    `json:"failed"`
	Skipped     int    `json:"skipped"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	Error       string `json:"error,omitempty"`
	ProcessedAt string `json:"processed_at"`
}

// RunCharge handles the POST /cron/charge-recurrent endpoint.
// Called by the scheduler to process all due recurrent payment tokens.
func (h *ChargeHandler) RunCharge(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Charge cron job triggered",
		zap.String("method", r.Method),
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("user_agent", r.UserAgent()),
	)

	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	if !h.authenticateRequest(r) {
		h.logger.Warn("Unauthorized cron request",
			zap.String("remote_addr", r.RemoteAddr),
		)
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RunChargeRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("Failed to parse request body", zap.Error(err))
			// Continue with defaults if parsing fails
		}
	}

	opts := ports.RunOptions{}
	if req.TestCharge != nil {
		opts.TestCharge = *req.TestCharge
	}

	summary, err := h.chargeService.RunBatch(r.Context(), opts)

	resp := RunChargeResponse{
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if summary != nil {
		resp.Attempted = summary.Attempted
		resp.Succeeded = summary.Succeeded
		resp.Failed = summary.Failed
		resp.Skipped = summary.Skipped
		resp.ElapsedMs = summary.Elapsed.Milliseconds()
	}
	resp.Success = err == nil && resp.Failed == 0

	w.Header().Set("Content-Type", "application/json")
	switch {
	case err != nil:
		resp.Error = err.Error()
		w.WriteHeader(http.StatusInternalServerError)
	case resp.Failed > 0:
		w.WriteHeader(http.StatusPartialContent) // 206 indicates partial success
	default:
		w.WriteHeader(http.StatusOK)
	}

	h.logger.Info("Charge batch completed",
		zap.Int("attempted", resp.Attempted),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
		zap.Int("skipped", resp.Skipped),
	)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		h.logger.Error("Failed to encode response", zap.Error(encErr))
	}
}

// authenticateRequest verifies the cron request is authorized
func (h *ChargeHandler) authenticateRequest(r *http.Request) bool {
	if secret := r.Header.Get("X-Cron-Secret"); secret != "" && secret == h.cronSecret {
		return true
	}
	if r.Header.Get("Authorization") == "Bearer "+h.cronSecret {
		return true
	}
	return false
}

// respondError sends an error response
func (h *ChargeHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// HealthCheck handles GET /cron/health for monitoring
func (h *ChargeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	resp := map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	json.NewEncoder(w).Encode(resp)
}
