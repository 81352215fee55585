package wallet

import (
	"fmt"
	"net/http"

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

// @Summary      Get wallet balances
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} api.Response{data=wallet.Wallet}
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/wallet [get]
func (h *Handler) GetBalance(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	w, err := h.service.GetWallet(c.Request.Context(), email)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.OK(c, http.StatusOK, "", w)
}

// @Summary      Transfer between own accounts
// @Description  Moves a USD amount between two accounts of the caller's wallet, converting TIC/GIC at fixed prices.
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body wallet.TransferRequest true "Transfer"
// @Success      200 {object} api.Response{data=wallet.TransferResult}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/wallet/transfer-between-accounts [post]
func (h *Handler) TransferBetweenAccounts(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	var req TransferRequest
	if !api.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Transfer(c.Request.Context(), email, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	from, _ := ParseAccount(req.FromAccount)
	to, _ := ParseAccount(req.ToAccount)
	msg := fmt.Sprintf("Successfully transferred %s from %s to %s", UnitUSD.Format(req.Amount), from.Label(), to.Label())
	api.OK(c, http.StatusOK, msg, res)
}

// @Summary      Send funds to another user
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body wallet.SendRequest true "Send"
// @Success      201 {object} api.Response{data=wallet.PeerTransfer}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/wallet/send [post]
func (h *Handler) Send(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	var req SendRequest
	if !api.BindJSON(c, &req) {
		return
	}

	pt, err := h.service.Send(c.Request.Context(), email, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.OK(c, http.StatusCreated, "Funds sent", pt)
}
