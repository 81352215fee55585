package subscription

import (
	"context"
	"fmt"
	"time"

	"ticwallet/internal/transaction"
	"ticwallet/internal/wallet"

	"github.com/jmoiron/sqlx"
)

// LedgerWriter records the purchase's ledger row inside the purchase transaction.
type LedgerWriter interface {
	RecordTx(ctx context.Context, tx *sqlx.Tx, e transaction.Entry) (*transaction.Transaction, error)
}

type PostgresRepository struct {
	db     *sqlx.DB
	ledger LedgerWriter
}

func NewRepository(db *sqlx.DB, ledger LedgerWriter) *PostgresRepository {
	return &PostgresRepository{db: db, ledger: ledger}
}

// Purchase charges the plan price to the main wallet and writes the
// subscription, the payment and the ledger row. Either all of them commit or
// none do.
func (r *PostgresRepository) Purchase(ctx context.Context, email string, plan Plan, txID string, now time.Time) (*Purchase, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := wallet.LockForUpdate(ctx, tx, email)
	if err != nil {
		return nil, err
	}
	if w.TotalBalance.LessThan(plan.Price) {
		return nil, wallet.ErrInsufficientBalance
	}

	before := w.TotalBalance
	w.TotalBalance = before.Sub(plan.Price)
	if err := wallet.SaveBalances(ctx, tx, w); err != nil {
		return nil, err
	}

	sub := &Subscription{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (user_email, plan_id, plan_name, price, status, transaction_id, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, 'active', $5, $6, $7)
		RETURNING id, user_email, plan_id, plan_name, price, status, transaction_id, valid_from, valid_until, created_at`,
		email, plan.ID, plan.Name, plan.Price, txID, now, now.AddDate(0, 0, plan.DurationDays),
	).StructScan(sub)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}

	payment := &Payment{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO plan_payments (user_email, plan_id, plan_name, amount, currency, status, transaction_id)
		VALUES ($1, $2, $3, $4, 'USD', 'completed', $5)
		RETURNING id, user_email, plan_id, plan_name, amount, currency, status, transaction_id, created_at`,
		email, plan.ID, plan.Name, plan.Price, txID,
	).StructScan(payment)
	if err != nil {
		return nil, fmt.Errorf("insert plan payment: %w", err)
	}

	_, err = r.ledger.RecordTx(ctx, tx, transaction.Entry{
		ID:            txID,
		UserEmail:     email,
		Type:          transaction.TypePlanPurchase,
		Amount:        plan.Price,
		Currency:      "USD",
		BalanceBefore: before,
		BalanceAfter:  w.TotalBalance,
		Metadata: map[string]interface{}{
			"plan_id":         string(plan.ID),
			"plan_name":       plan.Name,
			"subscription_id": sub.ID,
			"payment_id":      payment.ID,
			"from_label":      wallet.AccountTotal.Label(),
			"amount_usd":      plan.Price.String(),
		},
		Description: "Plan purchase: " + plan.Name,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Purchase{
		Subscription:  sub,
		Payment:       payment,
		TransactionID: txID,
		BalanceAfter:  w.TotalBalance,
	}, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, email string) ([]Subscription, error) {
	subs := []Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT id, user_email, plan_id, plan_name, price,
			CASE WHEN status = 'active' AND valid_until < NOW() THEN 'expired' ELSE status END AS status,
			transaction_id, valid_from, valid_until, created_at
		FROM subscriptions
		WHERE user_email = $1
		ORDER BY created_at DESC`, email)
	return subs, err
}
