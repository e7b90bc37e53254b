package review

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
		public.GET("/caregivers/:id/reviews", h.ListByCaregiver)
	}

	if protected != nil {
		protected.GET("/caregivers/reviews", middleware.RequireCaregiver(), h.ListMine)
		protected.POST("/caregivers/:id/review", middleware.RequirePregnant(), h.Submit)
		protected.DELETE("/caregivers/:id/review", middleware.RequirePregnant(), h.Delete)
	}
}

type submitRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

// Submit creates or updates the caller's review of a caregiver.
// @Summary	Review a caregiver
// @Tags		Reviews
// @Security	BearerAuth
// @Param		id		path	int				true	"Caregiver ID"
// @Param		request	body	submitRequest	true	"rating 1..5 and comment"
// @Success	201	{object}	map[string]interface{}	"Review created"
// @Success	200	{object}	map[string]interface{}	"Review updated"
// @Router		/caregivers/{id}/review [POST]
func (h *Handler) Submit(c *gin.Context) {
	caregiverID, ok := parseID(c)
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.Rating == nil {
		response.Fail(c, ErrInvalidRating)
		return
	}

	res, err := h.svc.Submit(c.Request.Context(), p, caregiverID, SubmitInput{Rating: *req.Rating, Comment: req.Comment})
	if err != nil {
		response.Fail(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, res)
}

func (h *Handler) Delete(c *gin.Context) {
	caregiverID, ok := parseID(c)
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	agg, err := h.svc.Delete(c.Request.Context(), p, caregiverID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"caregiver": agg})
}

func (h *Handler) ListByCaregiver(c *gin.Context) {
	caregiverID, ok := parseID(c)
	if !ok {
		return
	}
	h.list(c, caregiverID)
}

func (h *Handler) ListMine(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	h.list(c, p.CaregiverID)
}

func (h *Handler) list(c *gin.Context, caregiverID int64) {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListForCaregiver(c.Request.Context(), caregiverID, pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid caregiver ID")
		return 0, false
	}
	return id, true
}
