package calendar

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reimondavendano/betapresko-sub001/internal/handler"
	"github.com/reimondavendano/betapresko-sub001/internal/service/schedule"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/calendar", h.GetCalendar)
}

// GetCalendar returns slot-assigned appointment events merged with the
// blocked-date overlay for the requested window.
func (h *Handler) GetCalendar(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from date"))
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid to date"))
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("to date is before from date"))
		return
	}

	events, err := h.service.BuildCalendar(c.Request.Context(), from, to)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(events))
}
