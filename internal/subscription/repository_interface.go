package subscription

import (
	"context"
	"time"
)

type Repository interface {
	Purchase(ctx context.Context, email string, plan Plan, txID string, now time.Time) (*Purchase, error)
	ListByUser(ctx context.Context, email string) ([]Subscription, error)
}
