package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TIC_PRICE", "")
	t.Setenv("GIC_PRICE", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.TICPrice.Equal(decimal.RequireFromString("0.02")))
	assert.True(t, cfg.GICPrice.Equal(decimal.NewFromInt(63)))
	assert.Equal(t, 72, cfg.DepositExpiryHours)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TIC_PRICE", "0.05")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "0.05", cfg.TICPrice.String())
	assert.Equal(t, 3, cfg.RateLimitBurst)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non numeric price", "GIC_PRICE", "abc"},
		{"zero price", "TIC_PRICE", "0"},
		{"bad expiry", "DEPOSIT_EXPIRY_HOURS", "3d"},
		{"bad rps", "RATE_LIMIT_RPS", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
