package history

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Event categories accepted by the type filter.
const (
	CategoryDeposit          = "deposit"
	CategoryWithdrawal       = "withdrawal"
	CategoryTransfer         = "transfer"
	CategoryInternalTransfer = "internal_transfer"
	CategoryPlanPurchase     = "plan_purchase"
	CategoryToken            = "token"
	CategoryStaking          = "staking"
)

// Event is one row of the unified history, whatever table it came from.
type Event struct {
	ID            string          `json:"id"`
	Source        string          `json:"source"`
	Category      string          `json:"category"`
	Type          string          `json:"type"`
	Amount        string          `json:"amount"`
	Currency      string          `json:"currency"`
	USDValue      decimal.Decimal `json:"usd_value"`
	Status        string          `json:"status"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	Details       string          `json:"details"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

type Query struct {
	Type   string `form:"type"`
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"omitempty,gte=0"`
	Offset int    `form:"offset" binding:"omitempty,gte=0"`
}

type TypeSummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total_usd"`
}

type Result struct {
	Success      bool                   `json:"success"`
	Transactions []Event                `json:"transactions"`
	Total        int                    `json:"total"`
	HasMore      bool                   `json:"hasMore"`
	Summary      map[string]TypeSummary `json:"summary"`
}
