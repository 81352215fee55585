package subscription

import (
	"context"
	"errors"
	"time"

	"ticwallet/internal/apperr"
	"ticwallet/internal/logger"
	"ticwallet/internal/metrics"
	"ticwallet/internal/transaction"
	"ticwallet/internal/wallet"
)

type Service interface {
	Plans() []Plan
	Subscribe(ctx context.Context, email string, req CreateSubscriptionRequest) (*Purchase, error)
	List(ctx context.Context, email string) ([]Subscription, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Plans() []Plan {
	return Plans()
}

func (s *service) Subscribe(ctx context.Context, email string, req CreateSubscriptionRequest) (*Purchase, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}
	plan, ok := FindPlan(req.PlanID)
	if !ok {
		return nil, apperr.Validation("unknown plan %q", req.PlanID)
	}

	txID := transaction.NewID()
	p, err := s.repo.Purchase(ctx, email, plan, txID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInsufficientBalance):
			return nil, apperr.Insufficient("Insufficient Main Wallet balance. Required: %s", wallet.UnitUSD.Format(plan.Price))
		case errors.Is(err, wallet.ErrWalletNotFound):
			return nil, apperr.NotFound("wallet not found")
		default:
			return nil, apperr.Persistence("failed to purchase plan", err)
		}
	}
	metrics.RecordSubscription(string(plan.ID))

	logger.Info("plan purchased",
		"transaction_id", txID,
		"user_email", email,
		"plan_id", plan.ID,
		"price", plan.Price.String(),
	)
	return p, nil
}

func (s *service) List(ctx context.Context, email string) ([]Subscription, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}
	subs, err := s.repo.ListByUser(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("failed to load subscriptions", err)
	}
	return subs, nil
}
