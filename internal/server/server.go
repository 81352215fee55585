package server

import (
	"context"
	"net/http"
	"time"

	"ticwallet/internal/auth"
	"ticwallet/internal/config"
	"ticwallet/internal/funding"
	"ticwallet/internal/history"
	"ticwallet/internal/notify"
	"ticwallet/internal/referral"
	"ticwallet/internal/subscription"
	"ticwallet/internal/transaction"
	"ticwallet/internal/user"
	"ticwallet/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router   *gin.Engine
	http     *http.Server
	db       *sqlx.DB
	config   *config.Config
	notifier *notify.Service
	funding  funding.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	recorder := transaction.NewRecorder(db)
	rates := wallet.Rates{TIC: cfg.TICPrice, GIC: cfg.GICPrice}

	walletService := wallet.NewService(wallet.NewRepository(db), recorder, notifier, rates)
	referralService := referral.NewService(referral.NewRepository(db), notifier)
	userService := user.NewService(user.NewRepository(db), referralService, notifier, cfg.JWTSecret)
	fundingService := funding.NewService(funding.NewRepository(db), notifier, funding.Config{
		DepositFeePercent:    cfg.DepositFeePercent,
		WithdrawalFeePercent: cfg.WithdrawalFeePercent,
		DepositExpiry:        time.Duration(cfg.DepositExpiryHours) * time.Hour,
	})
	subscriptionService := subscription.NewService(subscription.NewRepository(db, recorder))
	historyService := history.NewAggregator(history.DefaultSources(db)...)

	userHandler := user.NewHandler(userService, cfg.SecureCookies)
	walletHandler := wallet.NewHandler(walletService)
	referralHandler := referral.NewHandler(referralService)
	fundingHandler := funding.NewHandler(fundingService)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	transactionHandler := transaction.NewHandler(recorder)
	historyHandler := history.NewHandler(historyService)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	router.GET("/api/plans", subscriptionHandler.ListPlans)
	router.GET("/api/referrals/validate", referralHandler.Validate)

	protected := router.Group("/api")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.POST("/wallet/transfer-between-accounts", walletHandler.TransferBetweenAccounts)
		protected.POST("/wallet/send", walletHandler.Send)

		protected.GET("/referrals/stats", referralHandler.Stats)
		protected.POST("/referrals/apply", referralHandler.Apply)

		protected.GET("/transactions", transactionHandler.List)
		protected.GET("/transactions/history", historyHandler.History)

		protected.POST("/deposits", fundingHandler.CreateDeposit)
		protected.GET("/deposits", fundingHandler.ListDeposits)
		protected.POST("/withdrawals", fundingHandler.CreateWithdrawal)
		protected.GET("/withdrawals", fundingHandler.ListWithdrawals)
		protected.POST("/withdrawals/:id/cancel", fundingHandler.CancelWithdrawal)

		protected.POST("/subscriptions", subscriptionHandler.Create)
		protected.GET("/subscriptions", subscriptionHandler.ListMy)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.PUT("/deposits/:id/status", fundingHandler.UpdateDepositStatus)
		admin.PUT("/withdrawals/:id/status", fundingHandler.UpdateWithdrawalStatus)
	}

	if notifier != nil {
		router.GET("/test-email", TestEmail(notifier))
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		db:       db,
		config:   cfg,
		notifier: notifier,
		funding:  fundingService,
	}
}

// Funding exposes the funding service for background jobs.
func (s *Server) Funding() funding.Service {
	return s.funding
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on the configured port. After Shutdown it returns
// http.ErrServerClosed without listening.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
