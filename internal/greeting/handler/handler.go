// Package handler provides the HTTP handler for the greeting endpoint.
package handler

import (
	"net/http"
	"strings"

	"orghub_backend/internal/greeting/service"
	"orghub_backend/internal/greeting/transport"
	"orghub_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handler handles greeting requests.
type Handler struct {
	svc *service.Service
	log *logger.Logger
}

// New creates a new greeting handler.
func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Hello handles GET /hello.
func (h *Handler) Hello(c *gin.Context) {
	visitorName := c.DefaultQuery("visitor_name", "<No Name>")

	greeting := h.svc.Greet(c.Request.Context(), clientIP(c), visitorName)

	c.JSON(http.StatusOK, transport.GreetingResponse{
		ClientIP: greeting.ClientIP,
		Location: greeting.City,
		Greeting: greeting.Message,
	})
}

// clientIP prefers the first X-Forwarded-For entry over the peer address so
// the lookup sees the original caller behind a proxy.
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	return c.ClientIP()
}

// RegisterRoutes registers the greeting routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/hello", h.Hello)
}
