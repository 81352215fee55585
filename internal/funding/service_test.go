package funding

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ticwallet/internal/apperr"
	"ticwallet/internal/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateDeposit(ctx context.Context, r *Request) (*Request, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Request), args.Error(1)
}

func (m *MockRepository) CreateWithdrawal(ctx context.Context, r *Request) (*Request, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Request), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, kind Kind, email string) ([]Request, error) {
	args := m.Called(ctx, kind, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Request), args.Error(1)
}

func (m *MockRepository) Transition(ctx context.Context, kind Kind, id int64, owner string, next Status, notes string) (*Request, error) {
	args := m.Called(ctx, kind, id, owner, next, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Request), args.Error(1)
}

func (m *MockRepository) ExpirePendingDeposits(ctx context.Context, createdBefore time.Time) (int64, error) {
	args := m.Called(ctx, createdBefore)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendFundingStatus(ctx context.Context, to, kind, status, amount string) error {
	return m.Called(ctx, to, kind, status, amount).Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testConfig = Config{
	DepositFeePercent:    dec("2"),
	WithdrawalFeePercent: dec("1.5"),
	DepositExpiry:        72 * time.Hour,
}

func TestFees(t *testing.T) {
	tests := []struct {
		amount, percent, fee, final string
	}{
		{"100", "2", "2", "98"},
		{"33.33", "1.5", "0.5", "32.83"},
		{"10", "0", "0", "10"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s@%s", tt.amount, tt.percent), func(t *testing.T) {
			fee, final := fees(dec(tt.amount), dec(tt.percent))
			assert.True(t, fee.Equal(dec(tt.fee)), "fee %s", fee)
			assert.True(t, final.Equal(dec(tt.final)), "final %s", final)
		})
	}
}

func TestService_Deposit(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CreateDeposit", mock.Anything, mock.MatchedBy(func(r *Request) bool {
		return r.UserEmail == "a@example.com" && r.Fee.Equal(dec("2")) && r.FinalAmount.Equal(dec("98")) && r.Method == "usdt_trc20"
	})).Return(&Request{ID: 1, Status: StatusPending}, nil)

	svc := NewService(repo, nil, testConfig)
	r, err := svc.Deposit(context.Background(), "a@example.com", CreateDepositRequest{Amount: dec("100"), Method: " usdt_trc20 "})

	require.NoError(t, err)
	assert.Equal(t, int64(1), r.ID)
	repo.AssertExpectations(t)
}

func TestService_Deposit_RejectsNonPositive(t *testing.T) {
	svc := NewService(new(MockRepository), nil, testConfig)
	_, err := svc.Deposit(context.Background(), "a@example.com", CreateDepositRequest{Amount: dec("-5"), Method: "card"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestService_Withdraw_Insufficient(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CreateWithdrawal", mock.Anything, mock.Anything).Return(nil, wallet.ErrInsufficientBalance)

	svc := NewService(repo, nil, testConfig)
	_, err := svc.Withdraw(context.Background(), "a@example.com", CreateWithdrawalRequest{Amount: dec("500"), Method: "usdt_trc20", Address: "TXaddr"})

	assert.True(t, apperr.Is(err, apperr.KindInsufficient))
	assert.Equal(t, "Insufficient Main Wallet balance. Required: $500.00", apperr.Message(err))
}

func TestService_CancelWithdrawal(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	repo.On("Transition", mock.Anything, KindWithdrawal, int64(4), "a@example.com", StatusCancelled, "cancelled by user").
		Return(&Request{ID: 4, UserEmail: "a@example.com", Amount: dec("50"), Status: StatusCancelled}, nil)
	notifier.On("SendFundingStatus", mock.Anything, "a@example.com", "withdrawal", "cancelled", "$50.00").Return(nil)

	svc := NewService(repo, notifier, testConfig)
	r, err := svc.CancelWithdrawal(context.Background(), "a@example.com", 4)

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, r.Status)
	notifier.AssertExpectations(t)
}

func TestService_UpdateStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{"missing", ErrRequestNotFound, apperr.KindNotFound},
		{"terminal", fmt.Errorf("%w: completed to cancelled", ErrInvalidTransition), apperr.KindConflict},
		{"db down", errors.New("connection refused"), apperr.KindPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("Transition", mock.Anything, KindDeposit, int64(9), "", StatusApproved, "ok").Return(nil, tt.err)

			svc := NewService(repo, nil, testConfig)
			_, err := svc.UpdateStatus(context.Background(), KindDeposit, 9, UpdateStatusRequest{Status: StatusApproved, AdminNotes: " ok "})
			assert.True(t, apperr.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestService_ExpireStaleDeposits(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	repo := new(MockRepository)
	repo.On("ExpirePendingDeposits", mock.Anything, now.Add(-72*time.Hour)).Return(int64(2), nil)

	svc := &service{repo: repo, cfg: testConfig, now: func() time.Time { return now }}
	n, err := svc.ExpireStaleDeposits(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	repo.AssertExpectations(t)
}
