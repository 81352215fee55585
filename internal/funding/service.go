package funding

import (
	"context"
	"errors"
	"strings"
	"time"

	"ticwallet/internal/apperr"
	"ticwallet/internal/logger"
	"ticwallet/internal/metrics"
	"ticwallet/internal/wallet"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Notifier interface {
	SendFundingStatus(ctx context.Context, to, kind, status, amount string) error
}

type Config struct {
	DepositFeePercent    decimal.Decimal
	WithdrawalFeePercent decimal.Decimal
	DepositExpiry        time.Duration
}

type Service interface {
	Deposit(ctx context.Context, email string, req CreateDepositRequest) (*Request, error)
	Withdraw(ctx context.Context, email string, req CreateWithdrawalRequest) (*Request, error)
	CancelWithdrawal(ctx context.Context, email string, id int64) (*Request, error)
	List(ctx context.Context, kind Kind, email string) ([]Request, error)
	UpdateStatus(ctx context.Context, kind Kind, id int64, req UpdateStatusRequest) (*Request, error)
	ExpireStaleDeposits(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier, cfg Config) Service {
	return &service{repo: repo, notifier: notifier, cfg: cfg, now: time.Now}
}

// fees splits amount into the fee, rounded to cents, and what remains.
func fees(amount, percent decimal.Decimal) (fee, final decimal.Decimal) {
	fee = amount.Mul(percent).Div(hundred).Round(2)
	return fee, amount.Sub(fee)
}

func (s *service) Deposit(ctx context.Context, email string, req CreateDepositRequest) (*Request, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than 0")
	}

	fee, final := fees(req.Amount, s.cfg.DepositFeePercent)
	r, err := s.repo.CreateDeposit(ctx, &Request{
		UserEmail:   email,
		Amount:      req.Amount,
		Fee:         fee,
		FinalAmount: final,
		Currency:    "USD",
		Method:      strings.TrimSpace(req.Method),
		Reference:   strings.TrimSpace(req.Reference),
	})
	if err != nil {
		return nil, apperr.Persistence("failed to create deposit request", err)
	}
	metrics.RecordFundingRequest(string(KindDeposit), string(StatusPending))

	logger.Info("deposit requested", "request_id", r.ID, "user_email", email, "amount", req.Amount.String())
	return r, nil
}

func (s *service) Withdraw(ctx context.Context, email string, req CreateWithdrawalRequest) (*Request, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than 0")
	}

	fee, final := fees(req.Amount, s.cfg.WithdrawalFeePercent)
	if !final.IsPositive() {
		return nil, apperr.Validation("amount does not cover the withdrawal fee of %s", wallet.UnitUSD.Format(fee))
	}

	r, err := s.repo.CreateWithdrawal(ctx, &Request{
		UserEmail:   email,
		Amount:      req.Amount,
		Fee:         fee,
		FinalAmount: final,
		Currency:    "USD",
		Method:      strings.TrimSpace(req.Method),
		Reference:   strings.TrimSpace(req.Address),
	})
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			return nil, apperr.Insufficient("Insufficient Main Wallet balance. Required: %s", wallet.UnitUSD.Format(req.Amount))
		}
		return nil, apperr.Persistence("failed to create withdrawal request", err)
	}
	metrics.RecordFundingRequest(string(KindWithdrawal), string(StatusPending))

	logger.Info("withdrawal requested", "request_id", r.ID, "user_email", email, "amount", req.Amount.String())
	return r, nil
}

func (s *service) CancelWithdrawal(ctx context.Context, email string, id int64) (*Request, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}
	return s.transition(ctx, KindWithdrawal, id, email, StatusCancelled, "cancelled by user")
}

func (s *service) List(ctx context.Context, kind Kind, email string) ([]Request, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}
	requests, err := s.repo.ListByUser(ctx, kind, email)
	if err != nil {
		return nil, apperr.Persistence("failed to list requests", err)
	}
	return requests, nil
}

func (s *service) UpdateStatus(ctx context.Context, kind Kind, id int64, req UpdateStatusRequest) (*Request, error) {
	return s.transition(ctx, kind, id, "", req.Status, strings.TrimSpace(req.AdminNotes))
}

func (s *service) transition(ctx context.Context, kind Kind, id int64, owner string, next Status, notes string) (*Request, error) {
	r, err := s.repo.Transition(ctx, kind, id, owner, next, notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			return nil, apperr.NotFound("%s request %d not found", kind, id)
		case errors.Is(err, ErrInvalidTransition):
			return nil, apperr.Conflict("cannot move %s request to %s", kind, next)
		case errors.Is(err, wallet.ErrWalletNotFound):
			return nil, apperr.NotFound("wallet not found")
		default:
			return nil, apperr.Persistence("failed to update request status", err)
		}
	}
	metrics.RecordFundingRequest(string(kind), string(next))

	logger.Info("funding request status changed",
		"kind", kind,
		"request_id", id,
		"user_email", r.UserEmail,
		"status", next,
	)

	if s.notifier != nil {
		if err := s.notifier.SendFundingStatus(ctx, r.UserEmail, string(kind), string(next), wallet.UnitUSD.Format(r.Amount)); err != nil {
			logger.Warn("funding notification not queued", "request_id", id, "error", err)
		}
	}
	return r, nil
}

func (s *service) ExpireStaleDeposits(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.DepositExpiry)
	n, err := s.repo.ExpirePendingDeposits(ctx, cutoff)
	if err != nil {
		return 0, apperr.Persistence("failed to expire deposits", err)
	}
	if n > 0 {
		metrics.RecordDepositsExpired(n)
		logger.Info("stale deposits expired", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
