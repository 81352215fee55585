package history

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Source reads one store and maps its rows into events.
type Source interface {
	Name() string
	Categories() []string
	Fetch(ctx context.Context, email string) ([]Event, error)
}

// row is the column set every source query projects to.
type row struct {
	ID           string              `db:"id"`
	Kind         string              `db:"kind"`
	Amount       decimal.Decimal     `db:"amount"`
	Currency     string              `db:"currency"`
	USDAmount    decimal.NullDecimal `db:"usd_amount"`
	Status       string              `db:"status"`
	Origin       string              `db:"origin"`
	Counterparty string              `db:"counterparty"`
	Details      string              `db:"details"`
	Reference    string              `db:"reference"`
	CreatedAt    time.Time           `db:"created_at"`
}

type sqlSource struct {
	db         sqlx.QueryerContext
	name       string
	categories []string
	query      string
	mapRow     func(r row) Event
}

func (s *sqlSource) Name() string { return s.name }
func (s *sqlSource) Categories() []string { return s.categories }

func (s *sqlSource) Fetch(ctx context.Context, email string) ([]Event, error) {
	var rows []row
	if err := sqlx.SelectContext(ctx, s.db, &rows, s.query, email); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(rows))
	for _, r := range rows {
		e := s.mapRow(r)
		e.ID = s.name + ":" + r.ID
		e.Source = s.name
		e.Status = r.Status
		e.Details = r.Details
		e.Timestamp = r.CreatedAt
		e.Date = r.CreatedAt.Format("2006-01-02")
		e.Time = r.CreatedAt.Format("15:04:05")
		if e.Currency == "" {
			e.Currency = r.Currency
		}
		if e.USDValue.IsZero() {
			e.USDValue = usdValue(r)
		}
		events = append(events, e)
	}
	return events, nil
}

func usdValue(r row) decimal.Decimal {
	if r.USDAmount.Valid {
		return r.USDAmount.Decimal.Abs()
	}
	return r.Amount.Abs()
}

// signed renders an amount with its direction and unit, e.g. "+$100.00" or
// "-1000.000 TIC".
func signed(amount decimal.Decimal, currency string, credit bool) string {
	sign := "-"
	if credit {
		sign = "+"
	}
	amount = amount.Abs()
	switch strings.ToUpper(currency) {
	case "", "USD":
		return sign + "$" + amount.StringFixed(2)
	case "TIC":
		return sign + amount.StringFixed(3) + " TIC"
	case "GIC":
		return sign + amount.StringFixed(6) + " GIC"
	default:
		return sign + amount.StringFixed(2) + " " + strings.ToUpper(currency)
	}
}

const mainWallet = "Main Wallet"

// DefaultSources returns the seven stores that make up a user's history.
func DefaultSources(db sqlx.QueryerContext) []Source {
	return []Source{
		&sqlSource{
			db:         db,
			name:       "deposits",
			categories: []string{CategoryDeposit},
			query: `
				SELECT id::text AS id, 'deposit' AS kind, final_amount AS amount, currency,
					NULL AS usd_amount, status, COALESCE(method, '') AS origin, '' AS counterparty,
					COALESCE(admin_notes, '') AS details, COALESCE(reference, '') AS reference, created_at
				FROM deposit_requests
				WHERE user_email = $1`,
			mapRow: func(r row) Event {
				return Event{
					Category: CategoryDeposit,
					Type:     "deposit",
					Amount:   signed(r.Amount, r.Currency, true),
					From:     r.Origin,
					To:       mainWallet,
				}
			},
		},
		&sqlSource{
			db:         db,
			name:       "withdrawals",
			categories: []string{CategoryWithdrawal},
			query: `
				SELECT id::text AS id, 'withdrawal' AS kind, amount, currency,
					NULL AS usd_amount, status, '' AS origin, COALESCE(address, '') AS counterparty,
					COALESCE(admin_notes, '') AS details, '' AS reference, created_at
				FROM withdrawal_requests
				WHERE user_email = $1`,
			mapRow: func(r row) Event {
				return Event{
					Category: CategoryWithdrawal,
					Type:     "withdrawal",
					Amount:   signed(r.Amount, r.Currency, false),
					From:     mainWallet,
					To:       r.Counterparty,
				}
			},
		},
		&sqlSource{
			db:         db,
			name:       "user_transfers",
			categories: []string{CategoryTransfer},
			query: `
				SELECT id::text AS id,
					CASE WHEN sender_email = $1 THEN 'sent' ELSE 'received' END AS kind,
					amount, 'USD' AS currency, NULL AS usd_amount, status,
					sender_email AS origin, recipient_email AS counterparty,
					COALESCE(note, '') AS details, '' AS reference, created_at
				FROM user_transfers
				WHERE sender_email = $1 OR recipient_email = $1`,
			mapRow: func(r row) Event {
				received := r.Kind == "received"
				return Event{
					Category: CategoryTransfer,
					Type:     "transfer_" + r.Kind,
					Amount:   signed(r.Amount, "USD", received),
					From:     r.Origin,
					To:       r.Counterparty,
				}
			},
		},
		&sqlSource{
			db:         db,
			name:       "transactions",
			categories: []string{CategoryInternalTransfer, CategoryPlanPurchase},
			query: `
				SELECT transaction_id AS id, transaction_type AS kind, amount, currency,
					NULLIF(metadata->>'amount_usd', '')::numeric AS usd_amount, status,
					COALESCE(metadata->>'from_label', '') AS origin,
					COALESCE(metadata->>'to_label', '') AS counterparty,
					COALESCE(description, '') AS details, transaction_id AS reference, created_at
				FROM transactions
				WHERE user_email = $1`,
			mapRow: func(r row) Event {
				category := CategoryInternalTransfer
				if r.Kind == CategoryPlanPurchase {
					category = CategoryPlanPurchase
				}
				return Event{
					Category:      category,
					Type:          r.Kind,
					Amount:        signed(r.Amount, r.Currency, false),
					From:          r.Origin,
					To:            r.Counterparty,
					TransactionID: r.Reference,
				}
			},
		},
		&sqlSource{
			db:         db,
			name:       "plan_payments",
			categories: []string{CategoryPlanPurchase},
			query: `
				SELECT id::text AS id, 'plan_purchase' AS kind, amount, currency,
					NULL AS usd_amount, status, '' AS origin, plan_name AS counterparty,
					'' AS details, transaction_id AS reference, created_at
				FROM plan_payments
				WHERE user_email = $1`,
			mapRow: func(r row) Event {
				return Event{
					Category:      CategoryPlanPurchase,
					Type:          CategoryPlanPurchase,
					Amount:        signed(r.Amount, r.Currency, false),
					From:          mainWallet,
					To:            r.Counterparty,
					TransactionID: r.Reference,
				}
			},
		},
		&sqlSource{
			db:         db,
			name:       "token_transactions",
			categories: []string{CategoryToken},
			query: `
				SELECT id::text AS id, transaction_type AS kind, amount, token AS currency,
					usd_value AS usd_amount, status, '' AS origin, '' AS counterparty,
					COALESCE(description, '') AS details, '' AS reference, created_at
				FROM token_transactions
				WHERE user_email = $1`,
			mapRow: func(r row) Event {
				credit := r.Kind != "sale"
				wallet := strings.ToUpper(r.Currency) + " Wallet"
				e := Event{
					Category: CategoryToken,
					Type:     "token_" + r.Kind,
					Amount:   signed(r.Amount, r.Currency, credit),
					From:     mainWallet,
					To:       wallet,
				}
				if !credit {
					e.From, e.To = wallet, mainWallet
				}
				return e
			},
		},
		&sqlSource{
			db:         db,
			name:       "staking_events",
			categories: []string{CategoryStaking},
			query: `
				SELECT id::text AS id, event_type AS kind, amount, 'USD' AS currency,
					NULL AS usd_amount, status, '' AS origin, '' AS counterparty,
					COALESCE(description, '') AS details, '' AS reference, created_at
				FROM staking_events
				WHERE user_email = $1`,
			mapRow: func(r row) Event {
				credit := r.Kind != "stake"
				e := Event{
					Category: CategoryStaking,
					Type:     "staking_" + r.Kind,
					Amount:   signed(r.Amount, "USD", credit),
					From:     "Staking Wallet",
					To:       mainWallet,
				}
				if !credit {
					e.From, e.To = mainWallet, "Staking Wallet"
				}
				return e
			},
		},
	}
}
