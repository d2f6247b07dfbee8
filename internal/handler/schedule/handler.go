package schedule

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/handler"
	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/service/schedule"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

// RegisterStaffRoutes mounts the schedule editing endpoints. The clinic is
// taken from the staff token, not the URL, so staff can only edit their own.
func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	sched := r.Group("/schedule")
	{
		sched.GET("/hours", h.GetWeeklyHours)
		sched.PUT("/hours", h.ReplaceWeeklyHours)
		sched.GET("/exceptions", h.ListExceptions)
		sched.POST("/exceptions", h.UpsertExceptions)
		sched.DELETE("/exceptions/:id", h.DeleteException)
	}
}

func (h *Handler) GetWeeklyHours(c *gin.Context) {
	hours, err := h.service.ListWeeklyHours(c.Request.Context(), handler.CurrentClinicID(c))
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hours))
}

func (h *Handler) ReplaceWeeklyHours(c *gin.Context) {
	var req model.ReplaceWeeklyHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hours, err := h.service.ReplaceWeeklyHours(c.Request.Context(), handler.CurrentUserID(c), handler.CurrentClinicID(c), &req)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hours))
}

func (h *Handler) ListExceptions(c *gin.Context) {
	exceptions, err := h.service.ListExceptions(c.Request.Context(), handler.CurrentClinicID(c))
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(exceptions))
}

func (h *Handler) UpsertExceptions(c *gin.Context) {
	var req model.UpsertExceptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	exceptions, err := h.service.UpsertExceptions(c.Request.Context(), handler.CurrentUserID(c), handler.CurrentClinicID(c), &req)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(exceptions))
}

func (h *Handler) DeleteException(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid exception ID"))
		return
	}

	if err := h.service.DeleteException(c.Request.Context(), handler.CurrentUserID(c), handler.CurrentClinicID(c), id); err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
