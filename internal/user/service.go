package user

import (
	"context"
	"errors"
	"strings"

	"ticwallet/internal/apperr"
	"ticwallet/internal/auth"
	"ticwallet/internal/logger"
	"ticwallet/internal/referral"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Referrals interface {
	Resolve(ctx context.Context, code string) (*referral.Referrer, error)
	Apply(ctx context.Context, referredEmail, code string) (*referral.ApplyResult, error)
	GenerateCode(ctx context.Context, email string) (string, error)
}

type Notifier interface {
	SendWelcome(ctx context.Context, to, name string) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo      Repository
	referrals Referrals
	notifier  Notifier
	jwtSecret string
}

func NewService(repo Repository, referrals Referrals, notifier Notifier, jwtSecret string) Service {
	return &service{
		repo:      repo,
		referrals: referrals,
		notifier:  notifier,
		jwtSecret: jwtSecret,
	}
}

// Register creates the account with its wallet, then its own referral code. A
// supplied referral code is checked before anything is written.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.ReferralCode)

	if code != "" {
		if _, err := s.referrals.Resolve(ctx, code); err != nil {
			return nil, "", "", err
		}
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", "", apperr.Persistence("failed to check email", err)
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, strings.TrimSpace(req.Name), email, passwordHash, RoleMember)
	if err != nil {
		return nil, "", "", apperr.Persistence("failed to create account", err)
	}

	if _, err := s.referrals.GenerateCode(ctx, email); err != nil {
		logger.Warn("referral code not generated", "user_email", email, "error", err)
	}

	if code != "" {
		if _, err := s.referrals.Apply(ctx, email, code); err != nil {
			logger.Warn("referral not applied at registration", "user_email", email, "code", code, "error", err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendWelcome(ctx, email, user.Name); err != nil {
			logger.Warn("welcome notification not queued", "user_email", email, "error", err)
		}
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("user registered", "user_id", user.ID, "user_email", email, "referred", code != "")
	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to load user", err)
	}
	return user, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}
