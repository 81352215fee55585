package funding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ticwallet/internal/wallet"

	"github.com/jmoiron/sqlx"
)

var (
	ErrRequestNotFound   = errors.New("funding request not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// queries holds the statements of one request table. Withdrawals keep the
// payout address where deposits keep their reference.
type queries struct {
	insert string
	list   string
	lock   string
	update string
}

const requestColumns = `id, user_email, amount, fee, final_amount, currency, method, reference, status, admin_notes, created_at, updated_at`

var tables = map[Kind]queries{
	KindDeposit: {
		insert: `
			INSERT INTO deposit_requests (user_email, amount, fee, final_amount, currency, method, reference, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
			RETURNING ` + requestColumns,
		list: `SELECT ` + requestColumns + ` FROM deposit_requests WHERE user_email = $1 ORDER BY created_at DESC`,
		lock: `SELECT ` + requestColumns + ` FROM deposit_requests WHERE id = $1 FOR UPDATE`,
		update: `
			UPDATE deposit_requests
			SET status = $1, admin_notes = COALESCE(NULLIF($2, ''), admin_notes), updated_at = NOW()
			WHERE id = $3
			RETURNING ` + requestColumns,
	},
	KindWithdrawal: {
		insert: `
			INSERT INTO withdrawal_requests (user_email, amount, fee, final_amount, currency, method, address, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
			RETURNING ` + withdrawalColumns,
		list: `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE user_email = $1 ORDER BY created_at DESC`,
		lock: `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`,
		update: `
			UPDATE withdrawal_requests
			SET status = $1, admin_notes = COALESCE(NULLIF($2, ''), admin_notes), updated_at = NOW()
			WHERE id = $3
			RETURNING ` + withdrawalColumns,
	},
}

const withdrawalColumns = `id, user_email, amount, fee, final_amount, currency, method, address AS reference, status, admin_notes, created_at, updated_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateDeposit(ctx context.Context, req *Request) (*Request, error) {
	out := &Request{}
	err := r.db.QueryRowxContext(ctx, tables[KindDeposit].insert,
		req.UserEmail, req.Amount, req.Fee, req.FinalAmount, req.Currency, req.Method, req.Reference,
	).StructScan(out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWithdrawal holds the gross amount from the main balance and records
// the request in the same transaction.
func (r *PostgresRepository) CreateWithdrawal(ctx context.Context, req *Request) (*Request, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := wallet.DebitTotal(ctx, tx, req.UserEmail, req.Amount); err != nil {
		return nil, err
	}

	out := &Request{}
	err = tx.QueryRowxContext(ctx, tables[KindWithdrawal].insert,
		req.UserEmail, req.Amount, req.Fee, req.FinalAmount, req.Currency, req.Method, req.Reference,
	).StructScan(out)
	if err != nil {
		return nil, fmt.Errorf("insert withdrawal request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, kind Kind, email string) ([]Request, error) {
	requests := []Request{}
	if err := r.db.SelectContext(ctx, &requests, tables[kind].list, email); err != nil {
		return nil, err
	}
	return requests, nil
}

// Transition moves a request to next while holding its row lock and applies
// the balance effect of the move in the same transaction. A non-empty owner
// restricts the change to that user's requests.
func (r *PostgresRepository) Transition(ctx context.Context, kind Kind, id int64, owner string, next Status, notes string) (*Request, error) {
	q := tables[kind]

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current := &Request{}
	err = tx.GetContext(ctx, current, q.lock, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != "" && current.UserEmail != owner {
		return nil, ErrRequestNotFound
	}
	if !current.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, next)
	}

	switch {
	case kind == KindDeposit && next == StatusApproved:
		err = wallet.CreditTotal(ctx, tx, current.UserEmail, current.FinalAmount)
	case kind == KindWithdrawal && (next == StatusRejected || next == StatusCancelled):
		err = wallet.CreditTotal(ctx, tx, current.UserEmail, current.Amount)
	}
	if err != nil {
		return nil, err
	}

	updated := &Request{}
	if err := tx.GetContext(ctx, updated, q.update, next, notes, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

// ExpirePendingDeposits cancels deposits still pending since before createdBefore.
func (r *PostgresRepository) ExpirePendingDeposits(ctx context.Context, createdBefore time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE deposit_requests
		SET status = 'cancelled', admin_notes = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1`,
		createdBefore,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
