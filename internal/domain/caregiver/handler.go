package caregiver

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

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/caregivers", h.Search)
		public.GET("/caregivers/:id", h.Get)
		public.GET("/caregivers/:id/availability", h.Availability)
	}

	if protected != nil {
		protected.GET("/caregivers/recommended", h.Recommend)
		protected.GET("/caregivers/me", middleware.RequireCaregiver(), h.Me)
		protected.PATCH("/caregivers/me", middleware.RequireCaregiver(), h.UpdateMe)
		protected.GET("/caregivers/stats", middleware.RequireCaregiver(), h.Stats)

		experiences := protected.Group("/experiences", middleware.RequireCaregiver())
		{
			experiences.GET("", h.ListExperiences)
			experiences.POST("", h.CreateExperience)
			experiences.PUT("/:id", h.UpdateExperience)
			experiences.DELETE("/:id", h.DeleteExperience)
		}
	}
}

// Search lists caregivers.
// @Summary	Search caregivers
// @Tags		Caregivers
// @Param		city			query	string	false	"City"
// @Param		state			query	string	false	"State"
// @Param		specialization	query	string	false	"Specialization tag"
// @Param		available		query	bool	false	"Only available caregivers"
// @Param		ordering		query	string	false	"rating, -rating, hourly_rate, -hourly_rate, experience_years, -experience_years"
// @Router		/caregivers [GET]
func (h *Handler) Search(c *gin.Context) {
	f := SearchFilter{
		City:           c.Query("city"),
		State:          c.Query("state"),
		Specialization: c.Query("specialization"),
		Ordering:       c.Query("ordering"),
	}
	if v := c.Query("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(c, "available must be a boolean")
			return
		}
		f.Available = &b
	}
	if v := c.Query("min_rating"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.BadRequest(c, "min_rating must be a number")
			return
		}
		f.MinRating = &r
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.Search(c.Request.Context(), f, pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "Invalid caregiver ID")
	if !ok {
		return
	}
	cg, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, cg)
}

func (h *Handler) Availability(c *gin.Context) {
	id, ok := parseID(c, "Invalid caregiver ID")
	if !ok {
		return
	}
	av, err := h.svc.Availability(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, av)
}

// Recommend returns nearby caregivers. City and state default to the
// caller's own profile.
func (h *Handler) Recommend(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, "limit must be an integer")
			return
		}
		limit = n
	}

	items, err := h.svc.Recommend(c.Request.Context(), p, c.Query("city"), c.Query("state"), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *Handler) Me(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	cg, err := h.svc.Mine(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, cg)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	cg, err := h.svc.UpdateMine(c.Request.Context(), p, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, cg)
}

func (h *Handler) Stats(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	st, err := h.svc.Stats(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) ListExperiences(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	items, err := h.svc.ListExperiences(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) CreateExperience(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var in ExperienceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	e, err := h.svc.CreateExperience(c.Request.Context(), p, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e)
}

func (h *Handler) UpdateExperience(c *gin.Context) {
	id, ok := parseID(c, "Invalid experience ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var in ExperienceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	e, err := h.svc.UpdateExperience(c.Request.Context(), p, id, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *Handler) DeleteExperience(c *gin.Context) {
	id, ok := parseID(c, "Invalid experience ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteExperience(c.Request.Context(), p, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Experience deleted"})
}

func parseID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}
