package wallet_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ticwallet/internal/apperr"
	"ticwallet/internal/db"
	"ticwallet/internal/transaction"
	"ticwallet/internal/wallet"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWallet(t *testing.T, database *sqlx.DB, email string, total string) {
	_, err := database.Exec(`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, 'x')`, email, email)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO wallets (user_email, total_balance) VALUES ($1, $2)`, email, total)
	require.NoError(t, err)
}

func newIntegrationService(database *sqlx.DB) wallet.Service {
	rates := wallet.Rates{TIC: decimal.RequireFromString("0.02"), GIC: decimal.NewFromInt(63)}
	return wallet.NewService(wallet.NewRepository(database), transaction.NewRecorder(database), nil, rates)
}

func TestConcurrentTransfers_Integration(t *testing.T) {
	database := db.OpenTestDB(t, "../../migrations")
	db.Truncate(t, database, "transactions", "wallets", "users")
	seedWallet(t, database, "race@example.com", "100")

	svc := newIntegrationService(database)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, "race@example.com", wallet.TransferRequest{
				FromAccount: "total",
				ToAccount:   "staking",
				Amount:      decimal.NewFromInt(20),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case apperr.KindOf(err) == apperr.KindInsufficient:
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, insufficient)

	w, err := svc.GetWallet(ctx, "race@example.com")
	require.NoError(t, err)
	assert.True(t, w.TotalBalance.IsZero())
	assert.True(t, w.StakingBalance.Equal(decimal.NewFromInt(100)))

	var rows int
	require.NoError(t, database.Get(&rows, `SELECT COUNT(*) FROM transactions WHERE user_email = $1`, "race@example.com"))
	assert.Equal(t, 5, rows)
}

func TestConcurrentSends_Integration(t *testing.T) {
	database := db.OpenTestDB(t, "../../migrations")
	db.Truncate(t, database, "user_transfers", "wallets", "users")
	seedWallet(t, database, "a@example.com", "50")
	seedWallet(t, database, "b@example.com", "50")

	svc := newIntegrationService(database)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		from, to := "a@example.com", "b@example.com"
		if i%2 == 1 {
			from, to = to, from
		}
		wg.Add(1)
		go func(from, to string, i int) {
			defer wg.Done()
			_, _ = svc.Send(ctx, from, wallet.SendRequest{
				RecipientEmail: to,
				Amount:         decimal.NewFromInt(10),
				Note:           fmt.Sprintf("send %d", i),
			})
		}(from, to, i)
	}
	wg.Wait()

	a, err := svc.GetWallet(ctx, "a@example.com")
	require.NoError(t, err)
	b, err := svc.GetWallet(ctx, "b@example.com")
	require.NoError(t, err)

	assert.True(t, a.TotalBalance.Add(b.TotalBalance).Equal(decimal.NewFromInt(100)))
	assert.False(t, a.TotalBalance.IsNegative())
	assert.False(t, b.TotalBalance.IsNegative())
}
