package transaction

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Record(ctx context.Context, e Entry) (*Transaction, error)
	RecordTx(ctx context.Context, tx *sqlx.Tx, e Entry) (*Transaction, error)
	ListByUser(ctx context.Context, email string, limit, offset int) ([]Transaction, error)
}
