package session

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maternity/internal/domain"
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
	sessions := protected.Group("/sessions")
	{
		sessions.GET("", h.ListSessions)
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/book", h.BookByPath)
	}

	bookings := protected.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.Book)
		bookings.POST("/:id/confirm", h.transition(ActionConfirm))
		bookings.POST("/:id/cancel", h.transition(ActionCancel))
		bookings.POST("/:id/complete", h.transition(ActionComplete))
		bookings.POST("/:id/pay", h.Pay)
	}
}

func (h *Handler) CreateSession(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var in CreateSessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	sess, err := h.svc.CreateSession(c.Request.Context(), p, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sess)
}

func (h *Handler) ListSessions(c *gin.Context) {
	f := SessionFilter{
		Type:     domain.SessionType(c.Query("session_type")),
		Ordering: c.Query("ordering"),
	}
	if v := c.Query("host"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "host must be a user id")
			return
		}
		f.HostUserID = id
	}
	if c.Query("upcoming") == "true" {
		f.FromDate = h.svc.now().Format(dateLayout)
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListSessions(c.Request.Context(), f, pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetSession(c *gin.Context) {
	id, ok := parseID(c, "Invalid session ID")
	if !ok {
		return
	}
	sess, err := h.svc.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// BookByPath books the session named in the URL.
// @Summary	Book a session
// @Tags		Sessions
// @Security	BearerAuth
// @Param		id	path	int	true	"Session ID"
// @Success	201	{object}	domain.SessionBooking
// @Failure	400	{object}	map[string]interface{}	"Session full"
// @Failure	409	{object}	map[string]interface{}	"Already booked"
// @Router		/sessions/{id}/book [POST]
func (h *Handler) BookByPath(c *gin.Context) {
	id, ok := parseID(c, "Invalid session ID")
	if !ok {
		return
	}
	h.book(c, id)
}

type bookRequest struct {
	SessionID int64 `json:"session_id" binding:"required,gt=0"`
}

func (h *Handler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "session_id is required")
		return
	}
	h.book(c, req.SessionID)
}

func (h *Handler) book(c *gin.Context, sessionID int64) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	b, err := h.svc.Book(c.Request.Context(), p, sessionID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) ListBookings(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListBookings(c.Request.Context(), p, c.Query("as") == "host", c.Query("status"), pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) transition(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Invalid booking ID")
		if !ok {
			return
		}
		p, ok := middleware.MustPrincipal(c)
		if !ok {
			return
		}
		b, err := h.svc.apply(c.Request.Context(), p, id, action)
		if err != nil {
			response.Fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, b)
	}
}

type payRequest struct {
	PaymentID string `json:"payment_id"`
}

func (h *Handler) Pay(c *gin.Context) {
	id, ok := parseID(c, "Invalid booking ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	b, err := h.svc.MarkPaid(c.Request.Context(), p, id, req.PaymentID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func parseID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}
