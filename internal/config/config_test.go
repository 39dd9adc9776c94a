package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/billing-service/internal/domain"
)

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1d", 24 * time.Hour, false},
		{"3d", 72 * time.Hour, false},
		{" 2d ", 48 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"0d", 0, true},
		{"-1d", 0, true},
		{"-5m", 0, true},
		{"xd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelay(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRetrySchedule(t *testing.T) {
	got, err := ParseRetrySchedule("1d, 3d,7d")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{24 * time.Hour, 72 * time.Hour, 168 * time.Hour}, got)
}

func TestParseRetrySchedule_Malformed(t *testing.T) {
	_, err := ParseRetrySchedule("1d,banana")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeConfigMalformed, domain.GetErrorCode(err))

	_, err = ParseRetrySchedule(" , ")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeConfigMalformed, domain.GetErrorCode(err))
}

func TestLoadFromEnv_MissingScheduleIsFatal(t *testing.T) {
	t.Setenv("RECURRENT_PAYMENT_CHARGES", "")
	t.Setenv("RECURRENT_PAYMENT_GATEWAY_FAIL_DELAY", "1h")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeConfigMissing, domain.GetErrorCode(err))
	assert.True(t, domain.IsConfigError(err))
}

func TestLoadFromEnv_MissingFailDelayIsFatal(t *testing.T) {
	t.Setenv("RECURRENT_PAYMENT_CHARGES", "1d,3d")
	t.Setenv("RECURRENT_PAYMENT_GATEWAY_FAIL_DELAY", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeConfigMissing, domain.GetErrorCode(err))
}

func TestLoadFromEnv_MalformedVATRateIsFatal(t *testing.T) {
	t.Setenv("RECURRENT_PAYMENT_CHARGES", "1d,3d")
	t.Setenv("RECURRENT_PAYMENT_GATEWAY_FAIL_DELAY", "1h")
	t.Setenv("DONATION_VAT_RATE", "twenty")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeConfigMalformed, domain.GetErrorCode(err))
}

func TestLoadFromEnv_FullChargeConfig(t *testing.T) {
	t.Setenv("RECURRENT_PAYMENT_CHARGES", "1d,3d,7d")
	t.Setenv("RECURRENT_PAYMENT_GATEWAY_FAIL_DELAY", "1h")
	t.Setenv("DONATION_VAT_RATE", "20")
	t.Setenv("CHARGE_BATCH_SIZE", "250")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Len(t, cfg.Charge.RetrySchedule, 3)
	assert.Equal(t, time.Hour, cfg.Charge.GatewayFailDelay)
	require.NotNil(t, cfg.Charge.DonationVATRate)
	assert.Equal(t, "20", cfg.Charge.DonationVATRate.String())
	assert.Equal(t, 250, cfg.Charge.BatchSize)
	assert.Equal(t, "Donation", cfg.Charge.DonationItemName)
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "billing",
		Password: "pw",
		Database: "billing_service",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=billing password=pw dbname=billing_service sslmode=require",
		db.ConnectionString())
}
