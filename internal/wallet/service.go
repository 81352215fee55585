package wallet

import (
	"context"
	"errors"
	"strings"

	"ticwallet/internal/apperr"
	"ticwallet/internal/logger"
	"ticwallet/internal/metrics"
	"ticwallet/internal/transaction"
)

// AuditRecorder persists the audit row written after a committed transfer.
type AuditRecorder interface {
	Record(ctx context.Context, e transaction.Entry) (*transaction.Transaction, error)
}

type Notifier interface {
	SendPeerTransferReceived(ctx context.Context, to, from, amount, note string) error
}

type Service interface {
	GetWallet(ctx context.Context, email string) (*Wallet, error)
	Transfer(ctx context.Context, email string, req TransferRequest) (*TransferResult, error)
	Send(ctx context.Context, email string, req SendRequest) (*PeerTransfer, error)
}

type service struct {
	repo     Repository
	recorder AuditRecorder
	notifier Notifier
	rates    Rates
	route    RoutingPolicy
}

func NewService(repo Repository, recorder AuditRecorder, notifier Notifier, rates Rates) Service {
	return NewServiceWithRouting(repo, recorder, notifier, rates, HubRouting)
}

func NewServiceWithRouting(repo Repository, recorder AuditRecorder, notifier Notifier, rates Rates, route RoutingPolicy) Service {
	return &service{
		repo:     repo,
		recorder: recorder,
		notifier: notifier,
		rates:    rates,
		route:    route,
	}
}

func (s *service) GetWallet(ctx context.Context, email string) (*Wallet, error) {
	w, err := s.repo.Get(ctx, email)
	if err != nil {
		return nil, mapRepoError(err, "failed to load wallet")
	}
	return w, nil
}

func (s *service) Transfer(ctx context.Context, email string, req TransferRequest) (*TransferResult, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}

	from, to, err := parseTransfer(req, s.route)
	if err != nil {
		metrics.RecordTransfer("invalid", "invalid", string(apperr.KindOf(err)))
		return nil, err
	}

	var m *movement
	w, err := s.repo.Update(ctx, email, func(w *Wallet) error {
		mv, err := applyTransfer(w, from, to, req.Amount, s.rates)
		if err != nil {
			return err
		}
		m = mv
		return nil
	})
	if err != nil {
		err = mapRepoError(err, "failed to update wallet balances")
		metrics.RecordTransfer(from.Code(), to.Code(), string(apperr.KindOf(err)))
		return nil, err
	}
	metrics.RecordTransfer(from.Code(), to.Code(), "success")

	txID := transaction.NewID()
	entry := auditEntry(txID, email, m, req)
	if _, err := s.recorder.Record(ctx, entry); err != nil {
		// The balance update is authoritative; the audit log is best-effort.
		logger.Error("transfer committed without audit row",
			"transaction_id", txID,
			"user_email", email,
			"from_account", from.Code(),
			"to_account", to.Code(),
			"error", err,
		)
		metrics.RecordAuditFailure()
	}

	logger.Info("between-accounts transfer completed",
		"transaction_id", txID,
		"user_email", email,
		"from_account", from.Code(),
		"to_account", to.Code(),
		"amount_usd", req.Amount.String(),
	)

	return &TransferResult{
		FromBalanceBefore: m.FromBefore,
		FromBalanceAfter:  m.FromAfter,
		ToBalanceBefore:   m.ToBefore,
		ToBalanceAfter:    m.ToAfter,
		TransactionID:     txID,
		Timestamp:         w.LastUpdated,
	}, nil
}

func auditEntry(txID, email string, m *movement, req TransferRequest) transaction.Entry {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = m.From.Label() + " → " + m.To.Label()
	}

	meta := map[string]interface{}{
		"from_account":        m.From.Code(),
		"to_account":          m.To.Code(),
		"from_label":          m.From.Label(),
		"to_label":            m.To.Label(),
		"from_balance_before": m.FromBefore.String(),
		"from_balance_after":  m.FromAfter.String(),
		"to_balance_before":   m.ToBefore.String(),
		"to_balance_after":    m.ToAfter.String(),
		"amount_usd":          m.AmountUSD.String(),
		"credited_amount":     m.Credited.String(),
		"credited_currency":   string(m.To.Unit()),
		"rate":                m.Rate.String(),
	}
	if len(req.Metadata) > 0 {
		meta["client"] = req.Metadata
	}

	return transaction.Entry{
		ID:            txID,
		UserEmail:     email,
		Type:          transaction.TypeInternalTransfer,
		Amount:        m.Debited,
		Currency:      string(m.From.Unit()),
		BalanceBefore: m.FromBefore,
		BalanceAfter:  m.FromAfter,
		Metadata:      meta,
		Description:   description,
	}
}

func (s *service) Send(ctx context.Context, email string, req SendRequest) (*PeerTransfer, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}
	recipient := strings.ToLower(strings.TrimSpace(req.RecipientEmail))
	if recipient == "" {
		return nil, apperr.Validation("recipient_email is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than 0")
	}
	if err := checkScale(req.Amount); err != nil {
		return nil, err
	}
	if strings.EqualFold(recipient, email) {
		return nil, apperr.Validation("cannot send funds to yourself")
	}

	pt, err := s.repo.Send(ctx, email, recipient, req.Amount, strings.TrimSpace(req.Note))
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientBalance):
			err = apperr.Insufficient("Insufficient Main Wallet balance. Required: %s", UnitUSD.Format(req.Amount))
		case errors.Is(err, ErrRecipientNotFound):
			err = apperr.NotFound("recipient %s not found", recipient)
		default:
			err = mapRepoError(err, "failed to send funds")
		}
		metrics.RecordPeerTransfer(string(apperr.KindOf(err)))
		return nil, err
	}
	metrics.RecordPeerTransfer("success")

	if s.notifier != nil {
		if err := s.notifier.SendPeerTransferReceived(ctx, recipient, email, UnitUSD.Format(pt.Amount), pt.Note); err != nil {
			logger.Warn("peer transfer notification not queued", "recipient", recipient, "error", err)
		}
	}

	return pt, nil
}

func mapRepoError(err error, message string) error {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, ErrWalletNotFound):
		return apperr.NotFound("wallet not found")
	default:
		return apperr.Persistence(message, err)
	}
}
