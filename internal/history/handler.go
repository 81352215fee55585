package history

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

// @Summary      Unified transaction history
// @Description  Merges deposits, withdrawals, sends, ledger rows, plan payments, token and staking events.
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        type   query string false "Category or type filter"
// @Param        status query string false "Status filter"
// @Param        limit  query int    false "Page size (default 50, max 200)"
// @Param        offset query int    false "Offset"
// @Success      200 {object} history.Result
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/transactions/history [get]
func (h *Handler) History(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	res, err := h.service.History(c.Request.Context(), email, q)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
