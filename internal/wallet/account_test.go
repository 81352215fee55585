package wallet

import (
	"testing"

	"ticwallet/internal/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAccount(t *testing.T) {
	for _, a := range allAccounts {
		parsed, ok := ParseAccount(a.Code())
		assert.True(t, ok, a.Code())
		assert.Equal(t, a, parsed)
	}

	parsed, ok := ParseAccount(" TIC ")
	assert.True(t, ok)
	assert.Equal(t, AccountTIC, parsed)

	_, ok = ParseAccount("savings")
	assert.False(t, ok)
}

func TestUnitFormat(t *testing.T) {
	assert.Equal(t, "$20.00", UnitUSD.Format(decimal.NewFromInt(20)))
	assert.Equal(t, "1000.000 TIC", UnitTIC.Format(decimal.NewFromInt(1000)))
	assert.Equal(t, "0.015873 GIC", UnitGIC.Format(decimal.RequireFromString("0.0158730")))
}

func TestAccountUnits(t *testing.T) {
	assert.Equal(t, UnitUSD, AccountTotal.Unit())
	assert.Equal(t, UnitUSD, AccountStaking.Unit())
	assert.Equal(t, UnitUSD, AccountPartner.Unit())
	assert.Equal(t, UnitTIC, AccountTIC.Unit())
	assert.Equal(t, UnitGIC, AccountGIC.Unit())
	assert.True(t, AccountGIC.IsToken())
	assert.False(t, AccountPartner.IsToken())
}

func TestHubRouting(t *testing.T) {
	tests := []struct {
		from, to Account
		allowed  bool
		message  string
	}{
		{AccountTIC, AccountGIC, false, "TIC Wallet can only transfer to Main Wallet"},
		{AccountGIC, AccountTotal, true, ""},
		{AccountTotal, AccountStaking, true, ""},
		{AccountStaking, AccountGIC, false, "GIC Wallet can only receive from Main Wallet"},
		{AccountTotal, AccountTIC, true, ""},
		{AccountPartner, AccountTotal, true, ""},
		{AccountPartner, AccountStaking, false, "Partner Wallet can only transfer to Main Wallet"},
		{AccountStaking, AccountTotal, true, ""},
		{AccountStaking, AccountPartner, false, "Partner Wallet can only receive from Main Wallet"},
	}

	for _, tt := range tests {
		t.Run(tt.from.Code()+"->"+tt.to.Code(), func(t *testing.T) {
			err := HubRouting(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.Is(err, apperr.KindRouting))
			assert.Equal(t, tt.message, apperr.Message(err))
		})
	}
}
