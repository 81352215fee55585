package subscription

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

// @Summary      Purchase a plan
// @Description  Charges the plan price to the main wallet.
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body subscription.CreateSubscriptionRequest true "Plan"
// @Success      201 {object} api.Response{data=subscription.Purchase}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/subscriptions [post]
func (h *Handler) Create(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	var req CreateSubscriptionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Subscribe(c.Request.Context(), email, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusCreated, "Plan purchased", p)
}

// @Summary      List the caller's subscriptions
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} api.Response{data=[]subscription.Subscription}
// @Router       /api/subscriptions [get]
func (h *Handler) ListMy(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	subs, err := h.service.List(c.Request.Context(), email)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, "", subs)
}

// @Summary      Plan catalog
// @Tags         subscriptions
// @Produce      json
// @Success      200 {object} api.Response{data=[]subscription.Plan}
// @Router       /api/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	api.OK(c, http.StatusOK, "", h.service.Plans())
}
