package server

import (
	"net/http"

	"ticwallet/internal/api"
	"ticwallet/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Queue a test notification
// @Tags         system
// @Produce      json
// @Param        email query string true "Recipient email"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /test-email [get]
func TestEmail(notifier *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := c.Query("email")
		if to == "" {
			api.Fail(c, http.StatusBadRequest, "email parameter required")
			return
		}

		if err := notifier.SendWelcome(c.Request.Context(), to, "Test User"); err != nil {
			api.Fail(c, http.StatusBadGateway, "notification queue unavailable")
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Notification queued"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
