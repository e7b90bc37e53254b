package appointment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maternity/internal/middleware"
	"maternity/internal/pkg/pagination"
	"maternity/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	appointments := protected.Group("/appointments")
	{
		appointments.GET("", h.List)
		appointments.POST("", middleware.RequirePregnant(), h.Create)
		appointments.GET("/upcoming", h.Upcoming)
		appointments.GET("/:id", h.Get)
		appointments.POST("/:id/confirm", h.transition(ActionConfirm))
		appointments.POST("/:id/cancel", h.transition(ActionCancel))
		appointments.POST("/:id/complete", h.transition(ActionComplete))
	}
}

// Create requests an appointment with a caregiver.
// @Summary	Book an appointment
// @Tags		Appointments
// @Security	BearerAuth
// @Param		request	body	CreateInput	true	"caregiver, date, time, optional title/description/duration"
// @Success	201	{object}	domain.Appointment
// @Router		/appointments [POST]
func (h *Handler) Create(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	a, err := h.svc.Create(c.Request.Context(), p, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) List(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request.Context(), p, c.Query("status"), pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Upcoming(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	items, err := h.svc.Upcoming(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	a, err := h.svc.Get(c.Request.Context(), p, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) transition(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		p, ok := middleware.MustPrincipal(c)
		if !ok {
			return
		}
		a, err := h.svc.apply(c.Request.Context(), p, id, action)
		if err != nil {
			response.Fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, a)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID")
		return 0, false
	}
	return id, true
}
