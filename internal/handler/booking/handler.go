package booking

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/handler"
	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/service/booking"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the availability grid without auth so
// owners can browse slots before signing in.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/clinics/:id/availability", h.GetAvailability)
}

func (h *Handler) RegisterOwnerRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}

func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.GET("", h.ListClinicBookings)
		bookings.POST("/:id/confirm", h.ConfirmBooking)
		bookings.POST("/:id/decline", h.DeclineBooking)
		bookings.POST("/:id/checkin", h.CheckInBooking)
		bookings.POST("/:id/noshow", h.NoShowBooking)
		bookings.POST("/:id/cancel", h.StaffCancelBooking)
	}
}

// GetAvailability returns the 7-day slot grid starting at week_start
// (default: today). Week starts before today are clamped forward.
func (h *Handler) GetAvailability(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	weekStart := time.Now()
	if raw := c.Query("week_start"); raw != "" {
		weekStart, err = time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid week_start, expected YYYY-MM-DD"))
			return
		}
	}

	days, err := h.service.GetWeekAvailability(c.Request.Context(), clinicID, weekStart)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"clinic_id": clinicID,
		"days":      days,
	}))
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), handler.CurrentUserID(c), &req)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(b))
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	filters := &model.BookingFilters{OwnerID: handler.CurrentUserID(c)}
	if status := c.Query("status"); status != "" {
		filters.Status = model.BookingStatus(status)
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	claims := handler.CurrentClaims(c)
	if claims.Role == model.UserRoleOwner && b.OwnerID != claims.UserID {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse(booking.ErrNotOwner.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
	}

	b, err := h.service.CancelByOwner(c.Request.Context(), handler.CurrentUserID(c), id, req.Reason)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) ListClinicBookings(c *gin.Context) {
	filters := &model.BookingFilters{ClinicID: handler.CurrentClinicID(c)}
	if status := c.Query("status"); status != "" {
		filters.Status = model.BookingStatus(status)
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date, expected YYYY-MM-DD"))
			return
		}
		filters.DateFrom = date
		filters.DateTo = date.AddDate(0, 0, 1)
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

func (h *Handler) CheckInBooking(c *gin.Context) {
	h.transition(c, h.service.CheckIn)
}

func (h *Handler) NoShowBooking(c *gin.Context) {
	h.transition(c, h.service.NoShow)
}

func (h *Handler) DeclineBooking(c *gin.Context) {
	h.transitionWithReason(c, h.service.Decline)
}

func (h *Handler) StaffCancelBooking(c *gin.Context) {
	h.transitionWithReason(c, h.service.CancelByStaff)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, actorID, clinicID, id uuid.UUID) (*model.Booking, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	b, err := fn(c.Request.Context(), handler.CurrentUserID(c), handler.CurrentClinicID(c), id)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) transitionWithReason(c *gin.Context, fn func(ctx context.Context, actorID, clinicID, id uuid.UUID, reason string) (*model.Booking, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
	}

	b, err := fn(c.Request.Context(), handler.CurrentUserID(c), handler.CurrentClinicID(c), id, req.Reason)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}
