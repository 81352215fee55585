package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Get(ctx context.Context, email string) (*Wallet, error)
	Update(ctx context.Context, email string, fn func(w *Wallet) error) (*Wallet, error)
	Send(ctx context.Context, senderEmail, recipientEmail string, amount decimal.Decimal, note string) (*PeerTransfer, error)
}
