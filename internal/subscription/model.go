package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlanID string
type Status string

const (
	PlanStarter PlanID = "starter"
	PlanGrowth  PlanID = "growth"
	PlanPro     PlanID = "pro"

	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

type Plan struct {
	ID           PlanID          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
}

type Subscription struct {
	ID            int64           `db:"id" json:"id"`
	UserEmail     string          `db:"user_email" json:"user_email"`
	PlanID        PlanID          `db:"plan_id" json:"plan_id"`
	PlanName      string          `db:"plan_name" json:"plan_name"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Status        Status          `db:"status" json:"status"`
	TransactionID string          `db:"transaction_id" json:"transaction_id"`
	ValidFrom     time.Time       `db:"valid_from" json:"valid_from"`
	ValidUntil    time.Time       `db:"valid_until" json:"valid_until"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Payment is the plan_payments row of a purchase. It shares TransactionID
// with the purchase's ledger row.
type Payment struct {
	ID            int64           `db:"id" json:"id"`
	UserEmail     string          `db:"user_email" json:"user_email"`
	PlanID        PlanID          `db:"plan_id" json:"plan_id"`
	PlanName      string          `db:"plan_name" json:"plan_name"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	Status        string          `db:"status" json:"status"`
	TransactionID string          `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

type CreateSubscriptionRequest struct {
	PlanID PlanID `json:"plan_id" binding:"required" example:"starter"`
}

type Purchase struct {
	Subscription  *Subscription   `json:"subscription"`
	Payment       *Payment        `json:"payment"`
	TransactionID string          `json:"transaction_id"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}
