package charge

import (
	"time"

	"github.com/kevin07696/billing-service/internal/domain"
	"github.com/kevin07696/billing-service/internal/domain/models"
)

// RetrySchedule computes charge timestamps from the configured ordered list of
// retry delays and a token's remaining retry budget.
type RetrySchedule struct {
	delays []time.Duration
}

// NewRetrySchedule validates and wraps the configured delay list
func NewRetrySchedule(delays []time.Duration) (*RetrySchedule, error) {
	if len(delays) == 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeConfigMalformed,
			"retry schedule must contain at least one delay")
	}
	for _, d := range delays {
		if d <= 0 {
			return nil, domain.NewDomainError(domain.ErrorCodeConfigMalformed,
				"retry schedule delays must be positive")
		}
	}
	out := make([]time.Duration, len(delays))
	copy(out, delays)
	return &RetrySchedule{delays: out}, nil
}

// FullBudget is the retry budget granted to a fresh chain link after a
// successful charge: one attempt per configured delay, minus the one just used.
func (s *RetrySchedule) FullBudget() int {
	return len(s.delays) - 1
}

// NextChargeAt computes the next attempt time after a recoverable decline.
// The delay list is read in reverse (most lenient delay first) and indexed by
// the retries remaining on the failing token; an index past the end saturates
// at the final configured delay, so an exhausted budget never errors here.
func (s *RetrySchedule) NextChargeAt(now time.Time, retriesRemaining int) time.Time {
	delay := s.delays[len(s.delays)-1]
	if retriesRemaining >= 0 && retriesRemaining < len(s.delays) {
		delay = s.delays[len(s.delays)-1-retriesRemaining]
	}
	return now.Add(delay)
}

// InitialChargeAt schedules the first attempt of a new chain link: the day the
// subscription period bought by the payment runs out. Falls back to the
// payment creation time when the payment was never marked paid.
func (s *RetrySchedule) InitialChargeAt(payment *models.Payment, subType *models.SubscriptionType) time.Time {
	base := payment.CreatedAt
	if payment.PaidAt != nil {
		base = *payment.PaidAt
	}
	return base.AddDate(0, 0, subType.LengthDays)
}
