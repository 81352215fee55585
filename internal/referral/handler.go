package referral

import (
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

// @Summary      Validate a referral code
// @Tags         referrals
// @Produce      json
// @Param        code query string true "Referral code"
// @Success      200 {object} referral.ValidateResponse
// @Failure      400 {object} referral.ValidateResponse
// @Router       /api/referrals/validate [get]
func (h *Handler) Validate(c *gin.Context) {
	code := c.Query("code")
	if NormalizeCode(code) == "" {
		c.JSON(http.StatusBadRequest, ValidateResponse{IsValid: false, Message: "Referral code is required"})
		return
	}

	resp, err := h.service.Validate(c.Request.Context(), code)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Referral statistics of the caller
// @Tags         referrals
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} api.Response{data=referral.Stats}
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/referrals/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), email)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, "", stats)
}

// @Summary      Apply a referral code to the caller's account
// @Tags         referrals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body referral.ApplyRequest true "Code"
// @Success      201 {object} api.Response{data=referral.ApplyResult}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/referrals/apply [post]
func (h *Handler) Apply(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	var req ApplyRequest
	if !api.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Apply(c.Request.Context(), email, req.ReferralCode)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusCreated, "Referral applied", res)
}
