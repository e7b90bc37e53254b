package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maternity/internal/middleware"
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
		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}
	}

	if protected != nil {
		protected.GET("/users/me", h.GetMe)
		protected.PATCH("/users/me", h.UpdateMe)
		protected.GET("/pregnant-women/me", middleware.RequirePregnant(), h.GetPregnantProfile)
		protected.PATCH("/pregnant-women/me", middleware.RequirePregnant(), h.UpdatePregnantProfile)
	}
}

// Register creates an account with its role profile.
// @Summary	Register
// @Tags		Auth
// @Accept		json
// @Produce	json
// @Param		request	body	RegisterInput	true	"username, email, password, user_type and profile fields"
// @Success	201	{object}	AuthResult
// @Failure	400	{object}	map[string]interface{}	"Validation error"
// @Failure	409	{object}	map[string]interface{}	"Username or email taken"
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	res, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// Login issues an access token.
// @Summary	Login
// @Tags		Auth
// @Param		request	body	LoginInput	true	"username or email, and password"
// @Success	200	{object}	AuthResult
// @Failure	401	{object}	map[string]interface{}	"Invalid credentials"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	res, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetMe(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	me, err := h.svc.Me(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var in UserUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	me, err := h.svc.UpdateMe(c.Request.Context(), p, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}

func (h *Handler) GetPregnantProfile(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	profile, err := h.svc.PregnantProfile(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func (h *Handler) UpdatePregnantProfile(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var in PregnantUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	profile, err := h.svc.UpdatePregnantProfile(c.Request.Context(), p, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}
