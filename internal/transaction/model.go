package transaction

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	TypeInternalTransfer = "internal_transfer"
	TypePlanPurchase     = "plan_purchase"

	StatusCompleted = "completed"
)

// Transaction is one row of the append-only audit log. Balances describe the
// source account of the movement in its native unit.
type Transaction struct {
	ID            string          `db:"transaction_id" json:"transaction_id"`
	UserEmail     string          `db:"user_email" json:"user_email"`
	Type          string          `db:"transaction_type" json:"transaction_type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	Metadata      types.JSONText  `db:"metadata" json:"metadata" swaggertype:"object"`
	Description   string          `db:"description" json:"description"`
	Status        string          `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Entry is what callers hand to the recorder. ID is generated when empty.
type Entry struct {
	ID            string
	UserEmail     string
	Type          string
	Amount        decimal.Decimal
	Currency      string
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Metadata      map[string]interface{}
	Description   string
}
