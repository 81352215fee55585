package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrRecipientNotFound   = errors.New("recipient wallet not found")
)

const walletColumns = `user_email, total_balance, tic_balance, gic_balance, staking_balance, partner_wallet_balance, last_updated`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, email string) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT `+walletColumns+` FROM wallets WHERE user_email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Insert adds an empty wallet row through exec, which may be the caller's
// transaction. An existing wallet is left untouched.
func Insert(ctx context.Context, exec sqlx.ExecerContext, email string) error {
	_, err := exec.ExecContext(ctx,
		`INSERT INTO wallets (user_email) VALUES ($1) ON CONFLICT (user_email) DO NOTHING`,
		email,
	)
	return err
}

// Update runs a read-modify-write of the user's wallet while holding the row
// lock, so concurrent requests for the same user are serialized. fn's error
// aborts the transaction and is returned unchanged.
func (r *PostgresRepository) Update(ctx context.Context, email string, fn func(w *Wallet) error) (*Wallet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := LockForUpdate(ctx, tx, email)
	if err != nil {
		return nil, err
	}

	if err := fn(w); err != nil {
		return nil, err
	}

	if err := SaveBalances(ctx, tx, w); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// Send moves main-wallet funds between two users. Both rows are locked in
// email order so opposite sends cannot deadlock, and the sender is debited
// with a conditional decrement.
func (r *PostgresRepository) Send(ctx context.Context, senderEmail, recipientEmail string, amount decimal.Decimal, note string) (*PeerTransfer, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var locked []string
	err = tx.SelectContext(ctx, &locked,
		`SELECT user_email FROM wallets WHERE user_email IN ($1, $2) ORDER BY user_email FOR UPDATE`,
		senderEmail, recipientEmail,
	)
	if err != nil {
		return nil, err
	}
	if !contains(locked, senderEmail) {
		return nil, ErrWalletNotFound
	}
	if !contains(locked, recipientEmail) {
		return nil, ErrRecipientNotFound
	}

	if err := DebitTotal(ctx, tx, senderEmail, amount); err != nil {
		return nil, err
	}
	if err := CreditTotal(ctx, tx, recipientEmail, amount); err != nil {
		return nil, err
	}

	pt := &PeerTransfer{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO user_transfers (sender_email, recipient_email, amount, note, status)
		VALUES ($1, $2, $3, $4, 'completed')
		RETURNING id, sender_email, recipient_email, amount, note, status, created_at`,
		senderEmail, recipientEmail, amount, note,
	).StructScan(pt)
	if err != nil {
		return nil, fmt.Errorf("insert user transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pt, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LockForUpdate reads the wallet row and holds its lock until tx ends.
func LockForUpdate(ctx context.Context, tx sqlx.QueryerContext, email string) (*Wallet, error) {
	w := &Wallet{}
	err := sqlx.GetContext(ctx, tx, w,
		`SELECT `+walletColumns+` FROM wallets WHERE user_email = $1 FOR UPDATE`,
		email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// SaveBalances writes every balance of w in one statement and refreshes
// LastUpdated from the database clock.
func SaveBalances(ctx context.Context, tx sqlx.QueryerContext, w *Wallet) error {
	err := sqlx.GetContext(ctx, tx, &w.LastUpdated, `
		UPDATE wallets
		SET total_balance = $1, tic_balance = $2, gic_balance = $3,
			staking_balance = $4, partner_wallet_balance = $5, last_updated = NOW()
		WHERE user_email = $6
		RETURNING last_updated`,
		w.TotalBalance, w.TICBalance, w.GICBalance, w.StakingBalance, w.PartnerWalletBalance, w.UserEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrWalletNotFound
	}
	return err
}

// DebitTotal decrements the main balance only if it covers amount.
func DebitTotal(ctx context.Context, exec sqlx.ExecerContext, email string, amount decimal.Decimal) error {
	res, err := exec.ExecContext(ctx, `
		UPDATE wallets
		SET total_balance = total_balance - $1, last_updated = NOW()
		WHERE user_email = $2 AND total_balance >= $1`,
		amount, email,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func CreditTotal(ctx context.Context, exec sqlx.ExecerContext, email string, amount decimal.Decimal) error {
	res, err := exec.ExecContext(ctx, `
		UPDATE wallets
		SET total_balance = total_balance + $1, last_updated = NOW()
		WHERE user_email = $2`,
		amount, email,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWalletNotFound
	}
	return nil
}
