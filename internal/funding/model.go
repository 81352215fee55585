package funding

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted},
}

// CanTransition reports whether an admin or owner may move a request from s to next.
// Completed, rejected and cancelled requests never change again.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Request is a deposit or withdrawal request. For withdrawals Reference holds
// the payout address.
type Request struct {
	ID          int64           `db:"id" json:"id"`
	UserEmail   string          `db:"user_email" json:"user_email"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Fee         decimal.Decimal `db:"fee" json:"fee"`
	FinalAmount decimal.Decimal `db:"final_amount" json:"final_amount"`
	Currency    string          `db:"currency" json:"currency"`
	Method      string          `db:"method" json:"method"`
	Reference   string          `db:"reference" json:"reference"`
	Status      Status          `db:"status" json:"status"`
	AdminNotes  string          `db:"admin_notes" json:"admin_notes"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

type CreateDepositRequest struct {
	Amount    decimal.Decimal `json:"amount" swaggertype:"number" example:"100"`
	Method    string          `json:"method" binding:"required,max=50" example:"usdt_trc20"`
	Reference string          `json:"reference,omitempty" binding:"max=255"`
}

type CreateWithdrawalRequest struct {
	Amount  decimal.Decimal `json:"amount" swaggertype:"number" example:"50"`
	Method  string          `json:"method" binding:"required,max=50" example:"usdt_trc20"`
	Address string          `json:"address" binding:"required,max=255"`
}

type UpdateStatusRequest struct {
	Status     Status `json:"status" binding:"required,oneof=approved completed rejected cancelled"`
	AdminNotes string `json:"admin_notes,omitempty" binding:"max=1000"`
}
