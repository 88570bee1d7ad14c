package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reimondavendano/betapresko-sub001/internal/handler"
	"github.com/reimondavendano/betapresko-sub001/internal/service/notification"
)

type Handler struct {
	service *notification.Service
}

func NewHandler(service *notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("/admin", h.AdminFeed)
		notifications.GET("/clients/:id", h.ClientFeed)
	}
}

func (h *Handler) AdminFeed(c *gin.Context) {
	notifications, err := h.service.AdminFeed(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notifications))
}

func (h *Handler) ClientFeed(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid client ID"))
		return
	}

	notifications, err := h.service.ClientFeed(c.Request.Context(), clientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notifications))
}
