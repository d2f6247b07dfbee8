package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/handler"
	"github.com/pawhub/vetbook-api/internal/model"
	"github.com/pawhub/vetbook-api/internal/service/clinic"
	"github.com/pawhub/vetbook-api/internal/service/vetservice"
)

type Handler struct {
	service  *clinic.Service
	services *vetservice.Service
}

func NewHandler(service *clinic.Service, services *vetservice.Service) *Handler {
	return &Handler{service: service, services: services}
}

// RegisterPublicRoutes exposes the clinic directory for browsing.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinics")
	{
		clinics.GET("", h.ListClinics)
		clinics.GET("/:id", h.GetClinic)
		clinics.GET("/:id/services", h.ListServices)
	}
}

// RegisterAuthRoutes lets any signed-in user onboard a new clinic; the
// creator then registers its staff accounts.
func (h *Handler) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.POST("/clinics", h.CreateClinic)
}

func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinics")
	{
		clinics.PUT("/:id", h.UpdateClinic)
		clinics.DELETE("/:id", h.DeleteClinic)
	}
}

func (h *Handler) ListClinics(c *gin.Context) {
	filters := &model.ClinicFilters{
		City:   c.Query("city"),
		Search: c.Query("search"),
		Status: string(model.ClinicStatusActive),
	}

	clinics, err := h.service.ListClinics(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinics))
}

func (h *Handler) GetClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	result, err := h.service.GetClinic(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) ListServices(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	services, err := h.services.ListServices(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req model.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.CreateClinic(c.Request.Context(), handler.CurrentUserID(c), &req)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}
	if id != handler.CurrentClinicID(c) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("cannot edit another clinic"))
		return
	}

	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.UpdateClinic(c.Request.Context(), handler.CurrentUserID(c), id, &req)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) DeleteClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}
	if id != handler.CurrentClinicID(c) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("cannot delete another clinic"))
		return
	}

	if err := h.service.DeleteClinic(c.Request.Context(), handler.CurrentUserID(c), id); err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
