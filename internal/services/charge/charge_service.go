package charge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kevin07696/billing-service/internal/domain"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/domain/ports"
	"github.com/kevin07696/billing-service/internal/events"
	serviceports "github.com/kevin07696/billing-service/internal/services/ports"
	"github.com/kevin07696/billing-service/pkg/observability"
	"github.com/kevin07696/billing-service/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// attemptLogContext tags ledger log entries written by the automatic charge batch
const attemptLogContext = "recurring-payment-automatic-charge"

// TestGatewayCode is the registry code the test gateway registers under
const TestGatewayCode = "test"

// tokenResult classifies what happened to one token within a batch
type tokenResult int

const (
	tokenSucceeded tokenResult = iota
	tokenFailed
	tokenSkipped
)

// Service is the recurrent charge orchestrator: it sweeps due chain nodes,
// charges each through its gateway and persists the resulting state
// transitions. Implements serviceports.ChargeService.
//
// Runs are expected to be mutually exclusive per deployment (flock or an
// equivalent single-instance lock around the batch); the fast-charge guard is
// a same-day backstop, not a substitute for that lock.
type Service struct {
	db               ports.DBPort
	payments         ports.PaymentRepository
	recurrents       ports.RecurrentPaymentRepository
	logs             ports.PaymentLogRepository
	gateways         ports.GatewayRegistry
	resolver         ports.RecurrentPaymentResolver
	builder          *PaymentBuilder
	schedule         *RetrySchedule
	emitter          ports.EventEmitter
	logger           ports.Logger
	gatewayFailDelay time.Duration
	batchSize        int32
	now              func() time.Time
}

// NewService wires the orchestrator
func NewService(
	db ports.DBPort,
	payments ports.PaymentRepository,
	recurrents ports.RecurrentPaymentRepository,
	logs ports.PaymentLogRepository,
	gateways ports.GatewayRegistry,
	resolver ports.RecurrentPaymentResolver,
	builder *PaymentBuilder,
	schedule *RetrySchedule,
	emitter ports.EventEmitter,
	logger ports.Logger,
	gatewayFailDelay time.Duration,
	batchSize int32,
) *Service {
	return &Service{
		db:               db,
		payments:         payments,
		recurrents:       recurrents,
		logs:             logs,
		gateways:         gateways,
		resolver:         resolver,
		builder:          builder,
		schedule:         schedule,
		emitter:          emitter,
		logger:           logger,
		gatewayFailDelay: gatewayFailDelay,
		batchSize:        batchSize,
		now:              timeutil.Now,
	}
}

// RunBatch processes every due token once. One token's failure never aborts
// the batch; only a fatal configuration error does.
func (s *Service) RunBatch(ctx context.Context, opts serviceports.RunOptions) (*serviceports.BatchSummary, error) {
	start := s.now()
	summary := &serviceports.BatchSummary{}

	due, err := s.recurrents.ListChargeable(ctx, nil, start, s.batchSize)
	if err != nil {
		return summary, fmt.Errorf("list chargeable recurrent payments: %w", err)
	}

	s.logger.Info("charging recurrent payments",
		ports.Int("due", len(due)),
		ports.Bool("test_charge", opts.TestCharge))

	for _, rp := range due {
		summary.Attempted++
		result, err := s.processToken(ctx, rp, opts)
		switch result {
		case tokenSucceeded:
			summary.Succeeded++
		case tokenFailed:
			summary.Failed++
		case tokenSkipped:
			summary.Skipped++
		}
		if err != nil {
			if domain.IsConfigError(err) {
				// amounts and schedules cannot be computed safely; stop loudly
				summary.Elapsed = s.now().Sub(start)
				return summary, err
			}
			s.logger.Error("recurrent payment charge failed",
				ports.String("recurrent_payment_id", rp.ID),
				ports.String("cid", rp.CID),
				ports.String("user_id", rp.UserID),
				ports.Err(err))
		}
	}

	summary.Elapsed = s.now().Sub(start)
	observability.ObserveBatch(summary.Attempted, summary.Elapsed)
	s.logger.Info("charge batch done",
		ports.Int("attempted", summary.Attempted),
		ports.Int("succeeded", summary.Succeeded),
		ports.Int("failed", summary.Failed),
		ports.Int("skipped", summary.Skipped),
		ports.String("elapsed", summary.Elapsed.Round(10*time.Millisecond).String()))

	return summary, nil
}

// processToken runs the full attempt sequence for one due token:
// guard, resolve, build or reuse the payment, persist the payment link,
// charge, classify, persist the transition, and always append the attempt log.
func (s *Service) processToken(ctx context.Context, rp *models.RecurrentPayment, opts serviceports.RunOptions) (tokenResult, error) {
	if stopped, err := s.fastChargeGuard(ctx, rp); err != nil {
		return tokenFailed, err
	} else if stopped {
		return tokenSkipped, nil
	}

	subType, err := s.resolver.ResolveSubscriptionType(ctx, rp)
	if err != nil {
		return tokenFailed, err
	}
	customAmount := s.resolver.ResolveCustomChargeAmount(rp)

	payment, result, err := s.preparePayment(ctx, rp, subType, customAmount)
	if err != nil || payment == nil {
		return result, err
	}

	gatewayCode := rp.GatewayCode
	if opts.TestCharge {
		gatewayCode = TestGatewayCode
	}
	gateway, err := s.gateways.Get(gatewayCode)
	if err != nil {
		return tokenFailed, domain.WrapError(domain.ErrorCodeTokenGatewayUnknown,
			fmt.Sprintf("gateway %q", gatewayCode), err)
	}

	chargeRes, chargeErr := gateway.Charge(ctx, payment, rp.CID)
	if chargeRes == nil {
		// transport failure with no normalized response: treat as a gateway
		// fail so the budget is preserved and the attempt is still logged
		chargeRes = gatewayFailResult(chargeErr)
	}

	// the attempt log is append-only and must be written even when persisting
	// the outcome fails
	defer s.appendAttemptLog(ctx, payment.ID, chargeRes)

	if err := s.applyOutcome(ctx, rp, payment, subType, customAmount, chargeRes); err != nil {
		return tokenFailed, err
	}

	s.logger.Info("recurrent payment processed",
		ports.String("recurrent_payment_id", rp.ID),
		ports.String("cid", rp.CID),
		ports.String("user_id", rp.UserID),
		ports.String("status", chargeRes.ResultCode))

	observability.RecordChargeOutcome(string(chargeRes.Outcome))
	if chargeRes.Successful() {
		return tokenSucceeded, nil
	}
	return tokenFailed, nil
}

// fastChargeGuard stops a token whose chain already charged today, or whose
// scheduled time exactly matches the previous charge. Two due tokens like that
// are a scheduling bug, and charging both would bill the subscriber twice.
func (s *Service) fastChargeGuard(ctx context.Context, rp *models.RecurrentPayment) (bool, error) {
	last, err := s.recurrents.LastCharged(ctx, nil, rp)
	if err != nil {
		return false, fmt.Errorf("load last charged chain node: %w", err)
	}
	if last == nil {
		return false, nil
	}
	if !timeutil.SameDay(last.ChargeAt, s.now()) && !last.ChargeAt.Equal(rp.ChargeAt) {
		return false, nil
	}

	rp.State = models.RecurrentStateSystemStop
	rp.Note = "Fast charge"
	if err := s.recurrents.Update(ctx, nil, rp); err != nil {
		return false, fmt.Errorf("stop fast-charging node: %w", err)
	}
	s.logger.Error("fast charge stopped",
		ports.String("recurrent_payment_id", rp.ID),
		ports.String("cid", rp.CID),
		ports.String("user_id", rp.UserID))
	return true, nil
}

// preparePayment reuses the payment already linked to the token or builds a
// new one, and durably links it to the token before any gateway call so a
// crash mid-attempt can never orphan the charge. A nil payment with a nil
// error means the token was skipped.
func (s *Service) preparePayment(
	ctx context.Context,
	rp *models.RecurrentPayment,
	subType *models.SubscriptionType,
	customAmount *decimal.Decimal,
) (*models.Payment, tokenResult, error) {
	if rp.PaymentID != "" {
		payment, err := s.payments.GetByID(ctx, nil, rp.PaymentID)
		if err != nil {
			return nil, tokenFailed, fmt.Errorf("load linked payment %s: %w", rp.PaymentID, err)
		}
		return payment, tokenSucceeded, nil
	}

	var parent *models.Payment
	if rp.ParentPaymentID != "" {
		var err error
		parent, err = s.payments.GetByID(ctx, nil, rp.ParentPaymentID)
		if err != nil {
			return nil, tokenFailed, fmt.Errorf("load parent payment %s: %w", rp.ParentPaymentID, err)
		}
	}

	payment, err := s.builder.Build(rp, parent, subType, customAmount)
	if err != nil {
		if domain.GetErrorCode(err) == domain.ErrorCodeTokenCustomAmount {
			// multi-item type with an amount override: leave the token for
			// manual review and keep the batch moving
			s.logger.Error("unchargeable custom amount",
				ports.String("recurrent_payment_id", rp.ID),
				ports.String("cid", rp.CID),
				ports.String("user_id", rp.UserID))
			return nil, tokenSkipped, nil
		}
		return nil, tokenFailed, err
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.payments.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		rp.PaymentID = payment.ID
		if err := s.recurrents.Update(ctx, tx, rp); err != nil {
			return fmt.Errorf("link payment to recurrent payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, tokenFailed, err
	}

	return payment, tokenSucceeded, nil
}

// applyOutcome persists the four-way outcome classification as one logical
// transaction: payment status, token transition and the successor node
func (s *Service) applyOutcome(
	ctx context.Context,
	rp *models.RecurrentPayment,
	payment *models.Payment,
	subType *models.SubscriptionType,
	customAmount *decimal.Decimal,
	res *models.ChargeResult,
) error {
	now := s.now()

	// events must not outrun the transaction; collect and emit after commit
	var statusChanged *events.PaymentStatusChanged

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		switch res.Outcome {
		case models.ChargeOutcomeSuccess:
			ev, err := s.updatePaymentStatus(ctx, tx, payment, models.PaymentStatusPaid, now)
			if err != nil {
				return err
			}
			statusChanged = ev
			successor := s.successor(rp, payment, customAmount)
			successor.Retries = s.schedule.FullBudget()
			successor.ChargeAt = s.schedule.InitialChargeAt(payment, subType)
			if err := s.recurrents.Create(ctx, tx, successor); err != nil {
				return fmt.Errorf("create successor node: %w", err)
			}
			rp.State = models.RecurrentStateCharged

		case models.ChargeOutcomeFailTry:
			ev, err := s.updatePaymentStatus(ctx, tx, payment, models.PaymentStatusFail, now)
			if err != nil {
				return err
			}
			statusChanged = ev
			successor := s.successor(rp, payment, customAmount)
			successor.Retries = rp.Retries - 1
			successor.ChargeAt = s.schedule.NextChargeAt(now, rp.Retries)
			if err := s.recurrents.Create(ctx, tx, successor); err != nil {
				return fmt.Errorf("create successor node: %w", err)
			}
			rp.State = models.RecurrentStateChargeFailed

		case models.ChargeOutcomeFailStop:
			ev, err := s.updatePaymentStatus(ctx, tx, payment, models.PaymentStatusFail, now)
			if err != nil {
				return err
			}
			statusChanged = ev
			rp.State = models.RecurrentStateSystemStop

		case models.ChargeOutcomeGatewayFail:
			ev, err := s.updatePaymentStatus(ctx, tx, payment, models.PaymentStatusFail, now)
			if err != nil {
				return err
			}
			statusChanged = ev
			// infrastructure failure, not a decline: retry at the fixed delay
			// without consuming the retry budget
			successor := s.successor(rp, payment, customAmount)
			successor.Retries = rp.Retries
			successor.ChargeAt = now.Add(s.gatewayFailDelay)
			if err := s.recurrents.Create(ctx, tx, successor); err != nil {
				return fmt.Errorf("create successor node: %w", err)
			}
			rp.State = models.RecurrentStateChargeFailed

		default:
			return fmt.Errorf("unknown charge outcome %q", res.Outcome)
		}

		rp.Status = res.ResultCode
		rp.Approval = res.ResultMessage
		if err := s.recurrents.Update(ctx, tx, rp); err != nil {
			return fmt.Errorf("update recurrent payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if statusChanged != nil {
		s.emitter.Emit(ctx, *statusChanged)
	}

	switch res.Outcome {
	case models.ChargeOutcomeFailTry, models.ChargeOutcomeGatewayFail:
		s.emitter.Emit(ctx, events.RecurrentChargeFailTry{
			RecurrentPaymentID: rp.ID,
			PaymentID:          payment.ID,
			UserID:             rp.UserID,
			CID:                rp.CID,
			ResultCode:         res.ResultCode,
		})
	case models.ChargeOutcomeFailStop:
		s.emitter.Emit(ctx, events.RecurrentChargeFailStop{
			RecurrentPaymentID: rp.ID,
			PaymentID:          payment.ID,
			UserID:             rp.UserID,
			CID:                rp.CID,
			ResultCode:         res.ResultCode,
		})
	}

	return nil
}

// updatePaymentStatus validates and persists a payment transition, returning
// the status-changed event for the caller to emit after commit. A rejected
// paid -> fail regression preserves the paid status and is only logged: the
// money was taken, a later failure record must not erase that.
func (s *Service) updatePaymentStatus(ctx context.Context, tx ports.DBTX, payment *models.Payment, next models.PaymentStatus, now time.Time) (*events.PaymentStatusChanged, error) {
	from := payment.Status
	if err := domain.ApplyPaymentStatus(payment, next, now); err != nil {
		if domain.GetErrorCode(err) == domain.ErrorCodePaymentStatusRegression {
			s.logger.Warn("payment status regression rejected",
				ports.String("payment_id", payment.ID),
				ports.String("status", string(from)),
				ports.String("rejected", string(next)))
			return nil, nil
		}
		return nil, err
	}
	if err := s.payments.UpdateStatus(ctx, tx, payment.ID, payment.Status, payment.PaidAt); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return &events.PaymentStatusChanged{PaymentID: payment.ID, From: from, To: next}, nil
}

// successor creates the next chain node sharing the card token and amount
// override of the one just attempted
func (s *Service) successor(rp *models.RecurrentPayment, payment *models.Payment, customAmount *decimal.Decimal) *models.RecurrentPayment {
	return &models.RecurrentPayment{
		ID:                 uuid.New().String(),
		CID:                rp.CID,
		UserID:             rp.UserID,
		GatewayCode:        rp.GatewayCode,
		ParentPaymentID:    payment.ID,
		SubscriptionTypeID: rp.SubscriptionTypeID,
		CustomAmount:       customAmount,
		State:              models.RecurrentStateActive,
		CreatedAt:          s.now(),
	}
}

// appendAttemptLog writes the append-only audit record for one attempt
func (s *Service) appendAttemptLog(ctx context.Context, paymentID string, res *models.ChargeResult) {
	result := models.PaymentLogError
	if res.Successful() {
		result = models.PaymentLogOK
	}
	entry := &models.PaymentLog{
		ID:        uuid.New().String(),
		Result:    result,
		Message:   string(res.Response),
		SourceURL: attemptLogContext,
		PaymentID: paymentID,
		CreatedAt: s.now(),
	}
	if err := s.logs.Create(ctx, nil, entry); err != nil {
		s.logger.Error("append attempt log failed",
			ports.String("payment_id", paymentID),
			ports.Err(err))
	}
}

func gatewayFailResult(err error) *models.ChargeResult {
	msg := "gateway call failed"
	if err != nil {
		msg = err.Error()
	}
	raw, _ := json.Marshal(map[string]string{"error": msg})
	return &models.ChargeResult{
		Outcome:       models.ChargeOutcomeGatewayFail,
		ResultCode:    "gateway_fail",
		ResultMessage: msg,
		Response:      raw,
	}
}
