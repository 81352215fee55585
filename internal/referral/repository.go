package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrCodeNotFound    = errors.New("referral code not found")
	ErrAlreadyReferred = errors.New("user already has a referrer")
	ErrCodeTaken       = errors.New("referral code already taken")
)

const uniqueViolation = "23505"

// codeLookups are tried in order; the first match wins.
var codeLookups = []string{
	`SELECT rc.user_email AS email, COALESCE(u.name, '') AS name
		FROM referral_codes rc
		LEFT JOIN users u ON u.email = rc.user_email
		WHERE rc.code = $1 AND rc.is_active = TRUE`,
	`SELECT email, name FROM users WHERE UPPER(referral_code) = $1`,
	`SELECT email, name FROM users WHERE UPPER(invite_code) = $1`,
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*Referrer, error) {
	for _, q := range codeLookups {
		var ref Referrer
		err := r.db.GetContext(ctx, &ref, q, code)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &ref, nil
	}
	return nil, ErrCodeNotFound
}

func (r *PostgresRepository) HasReferrer(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM referrals WHERE referred_email = $1)`, email)
	return exists, err
}

// DirectReferrer returns the level 1 referrer of email, or "" when there is none.
func (r *PostgresRepository) DirectReferrer(ctx context.Context, email string) (string, error) {
	var referrer string
	err := r.db.GetContext(ctx, &referrer,
		`SELECT referrer_email FROM referrals WHERE referred_email = $1 AND level_depth = 1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return referrer, err
}

// InsertChain writes every edge and bumps the direct referrer's counter in one
// transaction. Edges already present are skipped, so a retried call neither
// duplicates edges nor double counts. It returns the number of new edges.
func (r *PostgresRepository) InsertChain(ctx context.Context, referredEmail, code string, edges []Edge) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	directInserted := false
	for _, e := range edges {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO referrals (referrer_email, referred_email, level_depth, referral_code)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (referrer_email, referred_email, level_depth) DO NOTHING`,
			e.ReferrerEmail, referredEmail, e.LevelDepth, code,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, ErrAlreadyReferred
			}
			return 0, fmt.Errorf("insert level %d edge: %w", e.LevelDepth, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
		if e.LevelDepth == 1 && n > 0 {
			directInserted = true
		}
	}

	if directInserted {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET referral_count = referral_count + 1 WHERE email = $1`,
			edges[0].ReferrerEmail,
		)
		if err != nil {
			return 0, fmt.Errorf("increment referral count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *PostgresRepository) CreateCode(ctx context.Context, email, code string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO referral_codes (code, user_email) VALUES ($1, $2)`, code, email)
	if isUniqueViolation(err) {
		return ErrCodeTaken
	}
	return err
}

func (r *PostgresRepository) CodeFor(ctx context.Context, email string) (string, error) {
	var code string
	err := r.db.GetContext(ctx, &code, `
		SELECT code FROM referral_codes
		WHERE user_email = $1 AND is_active = TRUE
		ORDER BY created_at
		LIMIT 1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrCodeNotFound
	}
	return code, err
}

func (r *PostgresRepository) LevelCounts(ctx context.Context, email string) ([]LevelCount, error) {
	counts := []LevelCount{}
	err := r.db.SelectContext(ctx, &counts, `
		SELECT level_depth, COUNT(*) AS count
		FROM referrals
		WHERE referrer_email = $1 AND is_active = TRUE
		GROUP BY level_depth
		ORDER BY level_depth`, email)
	return counts, err
}

func (r *PostgresRepository) DirectReferrals(ctx context.Context, email string) ([]DirectReferral, error) {
	direct := []DirectReferral{}
	err := r.db.SelectContext(ctx, &direct, `
		SELECT r.referred_email, COALESCE(u.name, '') AS name, r.created_at
		FROM referrals r
		LEFT JOIN users u ON u.email = r.referred_email
		WHERE r.referrer_email = $1 AND r.level_depth = 1
		ORDER BY r.created_at DESC`, email)
	return direct, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
