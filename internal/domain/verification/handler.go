package verification

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maternity/internal/domain"
	"maternity/internal/middleware"
	"maternity/internal/pkg/response"
)

type Handler struct {
	svc *Service

	ownerBase    string
	operatorBase string
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the user endpoints on protected and the operator
// endpoints on internal, which must already enforce the internal token.
// Document images are only reachable through these groups.
func (h *Handler) RegisterRoutes(protected, internal *gin.RouterGroup) {
	if protected != nil {
		h.ownerBase = protected.BasePath()
		protected.POST("/verification", h.Submit)
		protected.GET("/verification/status", h.Status)
		protected.GET("/verification/images/:side", h.OwnImage)
	}
	if internal != nil {
		h.operatorBase = internal.BasePath()
		internal.POST("/verifications/:id/status", h.Review)
		internal.GET("/verifications/:id/images/:side", h.Image)
	}
}

func (h *Handler) ownerView(rec *Record) *Record {
	base := h.ownerBase + "/verification/images/"
	rec.FrontImageURL = base + SideFront
	rec.BackImageURL = base + SideBack
	return rec
}

func (h *Handler) operatorView(rec *Record) *Record {
	base := fmt.Sprintf("%s/verifications/%d/images/", h.operatorBase, rec.ID)
	rec.FrontImageURL = base + SideFront
	rec.BackImageURL = base + SideBack
	return rec
}

// Submit uploads identity document images for review.
// @Summary	Submit ID verification
// @Tags		Verification
// @Security	BearerAuth
// @Accept		multipart/form-data
// @Param		id_type		formData	string	true	"passport, drivers_license, national_id or aadhar"
// @Param		id_number	formData	string	true	"Document number"
// @Param		front_image	formData	file	true	"Front of the document"
// @Param		back_image	formData	file	true	"Back of the document"
// @Success	201	{object}	Record
// @Failure	409	{object}	map[string]interface{}	"Already pending or verified"
// @Router		/verification [POST]
func (h *Handler) Submit(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	in := SubmitInput{
		IDType:   domain.IDType(c.PostForm("id_type")),
		IDNumber: c.PostForm("id_number"),
	}
	if fh, err := c.FormFile("front_image"); err == nil {
		in.FrontImage = fh
	}
	if fh, err := c.FormFile("back_image"); err == nil {
		in.BackImage = fh
	}

	rec, err := h.svc.Submit(c.Request.Context(), p.UserID, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.ownerView(rec))
}

func (h *Handler) Status(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	rec, err := h.svc.Status(c.Request.Context(), p.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.ownerView(rec))
}

func (h *Handler) OwnImage(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	img, err := h.svc.OwnImage(c.Request.Context(), p.UserID, c.Param("side"))
	h.serveImage(c, img, err)
}

func (h *Handler) Image(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	img, err := h.svc.ImageByID(c.Request.Context(), id, c.Param("side"))
	h.serveImage(c, img, err)
}

func (h *Handler) serveImage(c *gin.Context, img *Image, err error) {
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer img.Body.Close()
	c.DataFromReader(http.StatusOK, -1, img.ContentType, img.Body, map[string]string{
		"Cache-Control": "private, no-store",
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid verification ID")
		return 0, false
	}
	return id, true
}

type reviewRequest struct {
	Status domain.VerificationStatus `json:"status" binding:"required"`
}

func (h *Handler) Review(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	rec, err := h.svc.Review(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.operatorView(rec))
}
