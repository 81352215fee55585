package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ticwallet/internal/auth"
	"ticwallet/internal/config"
	"ticwallet/internal/notify"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, _ := redismock.NewClientMock()
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		TICPrice:       decimal.RequireFromString("0.02"),
		GICPrice:       decimal.NewFromInt(63),
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}

	return New(sqlx.NewDb(db, "sqlmock"), cfg, notify.New(rdb, notify.NewSMTPMailer(notify.SMTPConfig{})))
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)
	member, _, err := auth.GenerateTokens(1, "a@example.com", "member", "test-secret", "test-secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"plans are public", http.MethodGet, "/api/plans", "", http.StatusOK},
		{"wallet needs auth", http.MethodGet, "/api/wallet", "", http.StatusUnauthorized},
		{"history needs auth", http.MethodGet, "/api/transactions/history", "", http.StatusUnauthorized},
		{"admin needs role", http.MethodPut, "/admin/deposits/1/status", member, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Shutdown(context.Background()))

	assert.ErrorIs(t, srv.Start(), http.ErrServerClosed)
}
