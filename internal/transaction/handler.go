package transaction

import (
	"net/http"
	"strconv"

	"ticwallet/internal/api"
	"ticwallet/internal/apperr"
	"ticwallet/internal/auth"

	"github.com/gin-gonic/gin"
)

const maxListLimit = 200

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// @Summary      List ledger rows
// @Description  Raw audit log of the caller's internal transfers and plan purchases, newest first.
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query int false "Page size" default(50)
// @Param        offset  query int false "Offset" default(0)
// @Success      200 {object} api.Response{data=[]transaction.Transaction}
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/transactions [get]
func (h *Handler) List(c *gin.Context) {
	email, ok := auth.GetUserEmail(c)
	if !ok {
		api.RespondError(c, apperr.AuthRequired())
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	txs, err := h.repo.ListByUser(c.Request.Context(), email, limit, offset)
	if err != nil {
		api.RespondError(c, apperr.Persistence("failed to load transactions", err))
		return
	}

	api.OK(c, http.StatusOK, "", txs)
}
