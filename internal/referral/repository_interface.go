package referral

import "context"

type Repository interface {
	FindByCode(ctx context.Context, code string) (*Referrer, error)
	HasReferrer(ctx context.Context, email string) (bool, error)
	DirectReferrer(ctx context.Context, email string) (string, error)
	InsertChain(ctx context.Context, referredEmail, code string, edges []Edge) (int, error)
	CreateCode(ctx context.Context, email, code string) error
	CodeFor(ctx context.Context, email string) (string, error)
	LevelCounts(ctx context.Context, email string) ([]LevelCount, error)
	DirectReferrals(ctx context.Context, email string) ([]DirectReferral, error)
}
