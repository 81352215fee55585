package referral

import (
	"context"
	"errors"
	"strings"

	"ticwallet/internal/apperr"
	"ticwallet/internal/logger"
	"ticwallet/internal/metrics"

	"github.com/google/uuid"
)

const (
	codeLength   = 8
	codeAttempts = 3
)

type Notifier interface {
	SendReferralJoined(ctx context.Context, referrerEmail, referredEmail string) error
}

type Service interface {
	Resolve(ctx context.Context, code string) (*Referrer, error)
	Validate(ctx context.Context, code string) (*ValidateResponse, error)
	Apply(ctx context.Context, referredEmail, code string) (*ApplyResult, error)
	GenerateCode(ctx context.Context, email string) (string, error)
	Stats(ctx context.Context, email string) (*Stats, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

// NormalizeCode trims and upper-cases a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) Resolve(ctx context.Context, code string) (*Referrer, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, apperr.Validation("referral code is required")
	}

	ref, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, ErrCodeNotFound) {
		return nil, apperr.NotFound("invalid referral code")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to resolve referral code", err)
	}
	return ref, nil
}

func (s *service) Validate(ctx context.Context, code string) (*ValidateResponse, error) {
	ref, err := s.Resolve(ctx, code)
	if err != nil {
		if apperr.Is(err, apperr.KindPersistence) {
			return nil, err
		}
		return &ValidateResponse{IsValid: false, Message: apperr.Message(err)}, nil
	}
	return &ValidateResponse{IsValid: true, Referrer: &ReferrerInfo{Name: ref.Name}}, nil
}

// Apply places referredEmail under the owner of code. The ancestor chain is
// collected first without writes, then stored atomically.
func (s *service) Apply(ctx context.Context, referredEmail, code string) (*ApplyResult, error) {
	if referredEmail == "" {
		return nil, apperr.AuthRequired()
	}

	ref, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(ref.Email, referredEmail) {
		return nil, apperr.Validation("you cannot use your own referral code")
	}

	has, err := s.repo.HasReferrer(ctx, referredEmail)
	if err != nil {
		return nil, apperr.Persistence("failed to check existing referrer", err)
	}
	if has {
		return nil, apperr.Validation("a referral has already been applied to this account")
	}

	edges, err := s.ancestors(ctx, ref.Email, referredEmail)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.InsertChain(ctx, referredEmail, NormalizeCode(code), edges)
	if errors.Is(err, ErrAlreadyReferred) {
		return nil, apperr.Validation("a referral has already been applied to this account")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to store referral chain", err)
	}
	metrics.RecordReferralEdges(n)

	logger.Info("referral chain created",
		"referred_email", referredEmail,
		"referrer_email", ref.Email,
		"levels", len(edges),
		"inserted", n,
	)

	if s.notifier != nil {
		if err := s.notifier.SendReferralJoined(ctx, ref.Email, referredEmail); err != nil {
			logger.Warn("referral notification not queued", "referrer_email", ref.Email, "error", err)
		}
	}

	return &ApplyResult{ReferrerEmail: ref.Email, Levels: len(edges)}, nil
}

// ancestors walks upward from the direct referrer, one level per step, until
// the chain ends or MaxDepth is reached.
func (s *service) ancestors(ctx context.Context, direct, referredEmail string) ([]Edge, error) {
	edges := []Edge{{ReferrerEmail: direct, LevelDepth: 1}}
	seen := map[string]bool{direct: true}

	current := direct
	for depth := 2; depth <= MaxDepth; depth++ {
		up, err := s.repo.DirectReferrer(ctx, current)
		if err != nil {
			return nil, apperr.Persistence("failed to walk referral chain", err)
		}
		if up == "" {
			break
		}
		if strings.EqualFold(up, referredEmail) {
			return nil, apperr.Validation("referral code belongs to someone in your own downline")
		}
		if seen[up] {
			logger.Warn("referral cycle detected", "referrer_email", up, "referred_email", referredEmail)
			break
		}
		seen[up] = true
		edges = append(edges, Edge{ReferrerEmail: up, LevelDepth: depth})
		current = up
	}
	return edges, nil
}

func (s *service) GenerateCode(ctx context.Context, email string) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code := newCode()
		err := s.repo.CreateCode(ctx, email, code)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return "", apperr.Persistence("failed to create referral code", err)
		}
		return code, nil
	}
	return "", apperr.Conflict("could not allocate a unique referral code")
}

func newCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:codeLength])
}

func (s *service) Stats(ctx context.Context, email string) (*Stats, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}

	code, err := s.repo.CodeFor(ctx, email)
	if err != nil && !errors.Is(err, ErrCodeNotFound) {
		return nil, apperr.Persistence("failed to load referral code", err)
	}

	levels, err := s.repo.LevelCounts(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("failed to load referral levels", err)
	}

	direct, err := s.repo.DirectReferrals(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("failed to load direct referrals", err)
	}

	stats := &Stats{Code: code, Levels: levels, Direct: direct, DirectCount: len(direct)}
	for _, l := range levels {
		stats.TotalReferrals += l.Count
	}
	return stats, nil
}
