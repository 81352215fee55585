package funding

import (
	"net/http"
	"strconv"

	"ticwallet/internal/api"
	"ticwallet/internal/apperr"
	"ticwallet/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func requestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(c, http.StatusBadRequest, "invalid request id")
		return 0, false
	}
	return id, true
}

// @Summary      Request a deposit
// @Tags         funding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body funding.CreateDepositRequest true "Deposit"
// @Success      201 {object} api.Response{data=funding.Request}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/deposits [post]
func (h *Handler) CreateDeposit(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	var req CreateDepositRequest
	if !api.BindJSON(c, &req) {
		return
	}

	r, err := h.service.Deposit(c.Request.Context(), email, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusCreated, "Deposit request submitted", r)
}

// @Summary      Request a withdrawal
// @Description  The amount is held from the main wallet until the request is completed, rejected or cancelled.
// @Tags         funding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body funding.CreateWithdrawalRequest true "Withdrawal"
// @Success      201 {object} api.Response{data=funding.Request}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/withdrawals [post]
func (h *Handler) CreateWithdrawal(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	var req CreateWithdrawalRequest
	if !api.BindJSON(c, &req) {
		return
	}

	r, err := h.service.Withdraw(c.Request.Context(), email, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusCreated, "Withdrawal request submitted", r)
}

// @Summary      Cancel a pending withdrawal
// @Tags         funding
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Withdrawal id"
// @Success      200 {object} api.Response{data=funding.Request}
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/withdrawals/{id}/cancel [post]
func (h *Handler) CancelWithdrawal(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}
	id, ok := requestID(c)
	if !ok {
		return
	}

	r, err := h.service.CancelWithdrawal(c.Request.Context(), email, id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, "Withdrawal cancelled", r)
}

// @Summary      List the caller's deposits
// @Tags         funding
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} api.Response{data=[]funding.Request}
// @Router       /api/deposits [get]
func (h *Handler) ListDeposits(c *gin.Context) {
	h.list(c, KindDeposit)
}

// @Summary      List the caller's withdrawals
// @Tags         funding
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} api.Response{data=[]funding.Request}
// @Router       /api/withdrawals [get]
func (h *Handler) ListWithdrawals(c *gin.Context) {
	h.list(c, KindWithdrawal)
}

func (h *Handler) list(c *gin.Context, kind Kind) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	requests, err := h.service.List(c.Request.Context(), kind, email)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, "", requests)
}

// @Summary      Set a deposit status
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int                         true "Deposit id"
// @Param        request body funding.UpdateStatusRequest true "Status"
// @Success      200 {object} api.Response{data=funding.Request}
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/deposits/{id}/status [put]
func (h *Handler) UpdateDepositStatus(c *gin.Context) {
	h.updateStatus(c, KindDeposit)
}

// @Summary      Set a withdrawal status
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int                         true "Withdrawal id"
// @Param        request body funding.UpdateStatusRequest true "Status"
// @Success      200 {object} api.Response{data=funding.Request}
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/withdrawals/{id}/status [put]
func (h *Handler) UpdateWithdrawalStatus(c *gin.Context) {
	h.updateStatus(c, KindWithdrawal)
}

func (h *Handler) updateStatus(c *gin.Context, kind Kind) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	r, err := h.service.UpdateStatus(c.Request.Context(), kind, id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, "Status updated", r)
}
