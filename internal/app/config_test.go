package app

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRejectsEmptyJWTSecret(t *testing.T) {
	// Set but empty: envconfig's required tag does not catch this case.
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "jwt secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.True(t, cfg.CommissionRateDecimal().Equal(decimal.RequireFromString("0.20")))
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadCommissionRate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("COMMISSION_RATE", "twenty percent")

	_, err := LoadConfig()
	require.Error(t, err)
}
