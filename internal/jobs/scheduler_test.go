package jobs

import (
	"context"
	"errors"
	"os"
	"testing"

	"ticwallet/internal/logger"
	"ticwallet/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) ExpireStaleDeposits(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type fixedQueue int64

func (q fixedQueue) QueueLength(ctx context.Context) int64 { return int64(q) }

func TestStartRegistersJobs(t *testing.T) {
	s := NewScheduler(new(MockExpirer), fixedQueue(0))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 2)
}

func TestStartWithoutQueue(t *testing.T) {
	s := NewScheduler(new(MockExpirer), nil)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 1)
}

func TestExpireDeposits(t *testing.T) {
	ctx := context.Background()
	expirer := new(MockExpirer)
	expirer.On("ExpireStaleDeposits", ctx).Return(int64(3), nil).Once()
	expirer.On("ExpireStaleDeposits", ctx).Return(int64(0), errors.New("db down")).Once()

	s := NewScheduler(expirer, nil)
	s.expireDeposits(ctx)
	s.expireDeposits(ctx)

	expirer.AssertNumberOfCalls(t, "ExpireStaleDeposits", 2)
}

func TestReportQueue(t *testing.T) {
	s := NewScheduler(new(MockExpirer), fixedQueue(7))
	s.reportQueue(context.Background())

	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.NotificationQueueLength))
}
