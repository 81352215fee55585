package transaction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// Recorder appends audit rows. Rows are never updated or deleted.
type Recorder struct {
	db *sqlx.DB
}

func NewRecorder(db *sqlx.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(ctx context.Context, e Entry) (*Transaction, error) {
	return insert(ctx, r.db, e)
}

// RecordTx writes the row inside the caller's transaction so it commits or
// rolls back together with the balance change it describes.
func (r *Recorder) RecordTx(ctx context.Context, tx *sqlx.Tx, e Entry) (*Transaction, error) {
	return insert(ctx, tx, e)
}

func insert(ctx context.Context, q sqlx.QueryerContext, e Entry) (*Transaction, error) {
	if e.ID == "" {
		e.ID = NewID()
	}

	meta := types.JSONText("{}")
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal transaction metadata: %w", err)
		}
		meta = types.JSONText(raw)
	}

	t := &Transaction{
		ID:            e.ID,
		UserEmail:     e.UserEmail,
		Type:          e.Type,
		Amount:        e.Amount,
		Currency:      e.Currency,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		Metadata:      meta,
		Description:   e.Description,
		Status:        StatusCompleted,
	}

	err := sqlx.GetContext(ctx, q, &t.CreatedAt, `
		INSERT INTO transactions (transaction_id, user_email, transaction_type, amount, currency,
			balance_before, balance_after, metadata, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		t.ID, t.UserEmail, t.Type, t.Amount, t.Currency,
		t.BalanceBefore, t.BalanceAfter, t.Metadata, t.Description, t.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction %s: %w", t.ID, err)
	}

	return t, nil
}

func (r *Recorder) ListByUser(ctx context.Context, email string, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT transaction_id, user_email, transaction_type, amount, currency,
			balance_before, balance_after, metadata, description, status, created_at
		FROM transactions
		WHERE user_email = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, email, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
