package wallet

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var walletCols = []string{"user_email", "total_balance", "tic_balance", "gic_balance", "staking_balance", "partner_wallet_balance", "last_updated"}

func setupWalletMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_email, total_balance")).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrWalletNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_Idempotent(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallets (user_email) VALUES ($1) ON CONFLICT (user_email) DO NOTHING")).
		WithArgs("a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Insert(context.Background(), repo.db, "a@example.com"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_LocksSavesAndCommits(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM wallets WHERE user_email = $1 FOR UPDATE")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("a@example.com", "100", "0", "0", "0", "0", now.Add(-time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE wallets SET total_balance = $1, tic_balance = $2")).
		WithArgs("80", "1000", "0", "0", "0", "a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"last_updated"}).AddRow(now))
	mock.ExpectCommit()

	w, err := repo.Update(context.Background(), "a@example.com", func(w *Wallet) error {
		_, err := applyTransfer(w, AccountTotal, AccountTIC, d("20"), testRates)
		return err
	})

	require.NoError(t, err)
	assert.True(t, w.TotalBalance.Equal(d("80")))
	assert.True(t, w.TICBalance.Equal(d("1000")))
	assert.WithinDuration(t, now, w.LastUpdated, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_RollsBackWhenMutationFails(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	refused := errors.New("refused")
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("a@example.com", "5", "0", "0", "0", "0", time.Now()))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "a@example.com", func(w *Wallet) error {
		return refused
	})

	assert.ErrorIs(t, err, refused)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_WalletMissing(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "ghost@example.com", func(w *Wallet) error {
		t.Fatal("mutation must not run without a row")
		return nil
	})

	assert.ErrorIs(t, err, ErrWalletNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitTotal_ConditionalDecrement(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("SET total_balance = total_balance - $1")).
		WithArgs("50", "a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := DebitTotal(context.Background(), repo.db, "a@example.com", d("50"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_Success(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_email FROM wallets WHERE user_email IN ($1, $2) ORDER BY user_email FOR UPDATE")).
		WithArgs("a@example.com", "b@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_email"}).AddRow("a@example.com").AddRow("b@example.com"))
	mock.ExpectExec(regexp.QuoteMeta("SET total_balance = total_balance - $1")).
		WithArgs("15", "a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET total_balance = total_balance + $1")).
		WithArgs("15", "b@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO user_transfers")).
		WithArgs("a@example.com", "b@example.com", "15", "lunch").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_email", "recipient_email", "amount", "note", "status", "created_at"}).
			AddRow(7, "a@example.com", "b@example.com", "15", "lunch", "completed", time.Now()))
	mock.ExpectCommit()

	pt, err := repo.Send(context.Background(), "a@example.com", "b@example.com", d("15"), "lunch")
	require.NoError(t, err)
	assert.Equal(t, int64(7), pt.ID)
	assert.Equal(t, "completed", pt.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_InsufficientRollsBack(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_email FROM wallets WHERE user_email IN")).
		WithArgs("a@example.com", "b@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_email"}).AddRow("a@example.com").AddRow("b@example.com"))
	mock.ExpectExec(regexp.QuoteMeta("SET total_balance = total_balance - $1")).
		WithArgs("500", "a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Send(context.Background(), "a@example.com", "b@example.com", d("500"), "")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_RecipientMissing(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_email FROM wallets WHERE user_email IN")).
		WithArgs("a@example.com", "c@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_email"}).AddRow("a@example.com"))
	mock.ExpectRollback()

	_, err := repo.Send(context.Background(), "a@example.com", "c@example.com", d("5"), "")
	assert.ErrorIs(t, err, ErrRecipientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
