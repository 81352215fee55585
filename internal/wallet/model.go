package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the single balance row kept per user. TotalBalance is the main
// account itself, not a derived sum of the others.
type Wallet struct {
	UserEmail            string          `db:"user_email" json:"user_email"`
	TotalBalance         decimal.Decimal `db:"total_balance" json:"total_balance"`
	TICBalance           decimal.Decimal `db:"tic_balance" json:"tic_balance"`
	GICBalance           decimal.Decimal `db:"gic_balance" json:"gic_balance"`
	StakingBalance       decimal.Decimal `db:"staking_balance" json:"staking_balance"`
	PartnerWalletBalance decimal.Decimal `db:"partner_wallet_balance" json:"partner_wallet_balance"`
	LastUpdated          time.Time       `db:"last_updated" json:"last_updated"`
}

// Balance returns the field backing the account, in the account's native unit.
func (w *Wallet) Balance(a Account) decimal.Decimal {
	switch a {
	case AccountTotal:
		return w.TotalBalance
	case AccountTIC:
		return w.TICBalance
	case AccountGIC:
		return w.GICBalance
	case AccountStaking:
		return w.StakingBalance
	case AccountPartner:
		return w.PartnerWalletBalance
	}
	return decimal.Zero
}

func (w *Wallet) setBalance(a Account, v decimal.Decimal) {
	switch a {
	case AccountTotal:
		w.TotalBalance = v
	case AccountTIC:
		w.TICBalance = v
	case AccountGIC:
		w.GICBalance = v
	case AccountStaking:
		w.StakingBalance = v
	case AccountPartner:
		w.PartnerWalletBalance = v
	}
}

type TransferRequest struct {
	FromAccount string                 `json:"from_account" binding:"required" example:"total"`
	ToAccount   string                 `json:"to_account" binding:"required" example:"tic"`
	Amount      decimal.Decimal        `json:"amount" swaggertype:"number" example:"20"`
	Description string                 `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type TransferResult struct {
	FromBalanceBefore decimal.Decimal `json:"from_balance_before"`
	FromBalanceAfter  decimal.Decimal `json:"from_balance_after"`
	ToBalanceBefore   decimal.Decimal `json:"to_balance_before"`
	ToBalanceAfter    decimal.Decimal `json:"to_balance_after"`
	TransactionID     string          `json:"transaction_id"`
	Timestamp         time.Time       `json:"timestamp"`
}

type SendRequest struct {
	RecipientEmail string          `json:"recipient_email" binding:"required,email"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"number" example:"15.5"`
	Note           string          `json:"note,omitempty" binding:"max=255"`
}

// PeerTransfer is a main-wallet send between two users.
type PeerTransfer struct {
	ID             int64           `db:"id" json:"id"`
	SenderEmail    string          `db:"sender_email" json:"sender_email"`
	RecipientEmail string          `db:"recipient_email" json:"recipient_email"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Note           string          `db:"note" json:"note"`
	Status         string          `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
