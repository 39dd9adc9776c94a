package charge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/billing-service/internal/domain"
	"github.com/kevin07696/billing-service/internal/testutil/fixtures"
)

func TestNewRetrySchedule_RejectsEmptyAndNonPositive(t *testing.T) {
	_, err := NewRetrySchedule(nil)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeConfigMalformed, domain.GetErrorCode(err))

	_, err = NewRetrySchedule([]time.Duration{24 * time.Hour, 0})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeConfigMalformed, domain.GetErrorCode(err))
}

func TestRetrySchedule_FullBudget(t *testing.T) {
	s, err := NewRetrySchedule([]time.Duration{24 * time.Hour, 72 * time.Hour, 168 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 2, s.FullBudget())

	single, err := NewRetrySchedule([]time.Duration{24 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 0, single.FullBudget())
}

func TestRetrySchedule_NextChargeAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	s, err := NewRetrySchedule([]time.Duration{1 * day, 3 * day})
	require.NoError(t, err)

	tests := []struct {
		name    string
		retries int
		want    time.Time
	}{
		// reversed list: the most retries remaining picks the shortest delay
		{"one retry left reads the front of the reversed list", 1, now.Add(1 * day)},
		{"last retry reads the back of the reversed list", 0, now.Add(3 * day)},
		// out-of-range budgets saturate at the final configured delay
		{"budget larger than the list saturates", 2, now.Add(3 * day)},
		{"far out of range still saturates", 10, now.Add(3 * day)},
		{"negative budget saturates", -1, now.Add(3 * day)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.NextChargeAt(now, tt.retries))
		})
	}
}

func TestRetrySchedule_InitialChargeAt(t *testing.T) {
	s, err := NewRetrySchedule([]time.Duration{24 * time.Hour})
	require.NoError(t, err)

	paidAt := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	subType := fixtures.NewSubscriptionType().WithLengthDays(31).Build()

	paid := fixtures.NewPayment().WithPaidAt(paidAt).Build()
	assert.Equal(t, paidAt.AddDate(0, 0, 31), s.InitialChargeAt(paid, subType))

	// a payment never marked paid falls back to its creation time
	unpaid := fixtures.NewPayment().Unpaid().WithCreatedAt(paidAt.Add(time.Hour)).Build()
	assert.Equal(t, paidAt.Add(time.Hour).AddDate(0, 0, 31), s.InitialChargeAt(unpaid, subType))
}
