package funding

import (
	"context"
	"time"
)

type Repository interface {
	CreateDeposit(ctx context.Context, r *Request) (*Request, error)
	CreateWithdrawal(ctx context.Context, r *Request) (*Request, error)
	ListByUser(ctx context.Context, kind Kind, email string) ([]Request, error)
	Transition(ctx context.Context, kind Kind, id int64, owner string, next Status, notes string) (*Request, error)
	ExpirePendingDeposits(ctx context.Context, createdBefore time.Time) (int64, error)
}
