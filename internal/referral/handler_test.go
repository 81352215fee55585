package referral

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ticwallet/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Resolve(ctx context.Context, code string) (*Referrer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Referrer), args.Error(1)
}

func (m *MockService) Validate(ctx context.Context, code string) (*ValidateResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ValidateResponse), args.Error(1)
}

func (m *MockService) Apply(ctx context.Context, referredEmail, code string) (*ApplyResult, error) {
	args := m.Called(ctx, referredEmail, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ApplyResult), args.Error(1)
}

func (m *MockService) GenerateCode(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockService) Stats(ctx context.Context, email string) (*Stats, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

func setupReferralRouter(svc Service, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(svc)

	router.GET("/api/referrals/validate", h.Validate)
	authed := router.Group("/api/referrals", func(c *gin.Context) {
		if email != "" {
			c.Set("user_email", email)
		}
		c.Next()
	})
	authed.GET("/stats", h.Stats)
	authed.POST("/apply", h.Apply)
	return router
}

func TestHandler_Validate(t *testing.T) {
	svc := new(MockService)
	svc.On("Validate", mock.Anything, "ABC123").Return(&ValidateResponse{IsValid: true, Referrer: &ReferrerInfo{Name: "Rita"}}, nil)
	svc.On("Validate", mock.Anything, "NOPE").Return(&ValidateResponse{IsValid: false, Message: "invalid referral code"}, nil)

	router := setupReferralRouter(svc, "")

	tests := []struct {
		query  string
		status int
		body   string
	}{
		{"?code=ABC123", http.StatusOK, `{"isValid":true,"referrer":{"name":"Rita"}}`},
		{"?code=NOPE", http.StatusOK, `{"isValid":false,"message":"invalid referral code"}`},
		{"", http.StatusBadRequest, `{"isValid":false,"message":"Referral code is required"}`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/referrals/validate"+tt.query, nil))

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestHandler_Apply(t *testing.T) {
	svc := new(MockService)
	svc.On("Apply", mock.Anything, "new@y.com", "ABC123").Return(&ApplyResult{ReferrerEmail: "referrer@x.com", Levels: 2}, nil)
	svc.On("Apply", mock.Anything, "new@y.com", "TWICE").Return(nil, apperr.Validation("a referral has already been applied to this account"))

	router := setupReferralRouter(svc, "new@y.com")

	req := httptest.NewRequest(http.MethodPost, "/api/referrals/apply", bytes.NewBufferString(`{"referral_code":"ABC123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"levels":2`)

	req = httptest.NewRequest(http.MethodPost, "/api/referrals/apply", bytes.NewBufferString(`{"referral_code":"TWICE"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Stats_RequiresSession(t *testing.T) {
	router := setupReferralRouter(new(MockService), "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/referrals/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
