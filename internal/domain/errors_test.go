package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetail_DoesNotMutateSentinel(t *testing.T) {
	errA := ErrPaymentNotFound.WithDetail("payment_id", "payment-A")
	errB := ErrPaymentNotFound.WithDetail("payment_id", "payment-B")

	// annotating the sentinel twice must yield two independent errors
	require.NotSame(t, errA, errB)
	assert.Equal(t, "payment-A", errA.Details["payment_id"])
	assert.Equal(t, "payment-B", errB.Details["payment_id"])

	// the sentinel itself stays pristine
	assert.Empty(t, ErrPaymentNotFound.Details)

	// code and message carry over to the copies
	assert.Equal(t, ErrorCodePaymentNotFound, GetErrorCode(errA))
	assert.Equal(t, ErrPaymentNotFound.Message, errA.Message)
}

func TestWithDetail_ChainsAccumulate(t *testing.T) {
	err := ErrUnchargeableCustomAmount.
		WithDetail("subscription_type_id", "st-1").
		WithDetail("item_count", 2)

	assert.Equal(t, "st-1", err.Details["subscription_type_id"])
	assert.Equal(t, 2, err.Details["item_count"])
	assert.Equal(t, ErrorCodeTokenCustomAmount, GetErrorCode(err))
	assert.Empty(t, ErrUnchargeableCustomAmount.Details)
}
