package wallet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Account names one of the balances held on a wallet row.
type Account int

const (
	AccountTotal Account = iota + 1
	AccountTIC
	AccountGIC
	AccountStaking
	AccountPartner
)

var allAccounts = []Account{AccountTotal, AccountTIC, AccountGIC, AccountStaking, AccountPartner}

// ParseAccount maps an API account code onto an Account.
func ParseAccount(code string) (Account, bool) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "total":
		return AccountTotal, true
	case "tic":
		return AccountTIC, true
	case "gic":
		return AccountGIC, true
	case "staking":
		return AccountStaking, true
	case "partner_wallet":
		return AccountPartner, true
	}
	return 0, false
}

func (a Account) Code() string {
	switch a {
	case AccountTotal:
		return "total"
	case AccountTIC:
		return "tic"
	case AccountGIC:
		return "gic"
	case AccountStaking:
		return "staking"
	case AccountPartner:
		return "partner_wallet"
	}
	return "unknown"
}

func (a Account) Label() string {
	switch a {
	case AccountTotal:
		return "Main Wallet"
	case AccountTIC:
		return "TIC Wallet"
	case AccountGIC:
		return "GIC Wallet"
	case AccountStaking:
		return "Staking Wallet"
	case AccountPartner:
		return "Partner Wallet"
	}
	return "Unknown Wallet"
}

func (a Account) String() string {
	return a.Code()
}

// Unit is the native denomination an account stores.
func (a Account) Unit() Unit {
	switch a {
	case AccountTIC:
		return UnitTIC
	case AccountGIC:
		return UnitGIC
	default:
		return UnitUSD
	}
}

// IsToken reports whether the account stores token quantities rather than USD.
func (a Account) IsToken() bool {
	return a.Unit() != UnitUSD
}

type Unit string

const (
	UnitUSD Unit = "USD"
	UnitTIC Unit = "TIC"
	UnitGIC Unit = "GIC"
)

// Precision is the number of decimals shown to users for the unit.
func (u Unit) Precision() int32 {
	switch u {
	case UnitTIC:
		return 3
	case UnitGIC:
		return 6
	default:
		return 2
	}
}

// Format renders an amount in the unit's display precision, e.g. "$20.00"
// or "1000.000 TIC".
func (u Unit) Format(d decimal.Decimal) string {
	s := d.StringFixed(u.Precision())
	if u == UnitUSD {
		return "$" + s
	}
	return s + " " + string(u)
}

// Rates holds the fixed USD price of one token unit.
type Rates struct {
	TIC decimal.Decimal
	GIC decimal.Decimal
}

// Price returns the USD value of one native unit of the account.
func (r Rates) Price(a Account) decimal.Decimal {
	switch a {
	case AccountTIC:
		return r.TIC
	case AccountGIC:
		return r.GIC
	default:
		return decimal.NewFromInt(1)
	}
}
