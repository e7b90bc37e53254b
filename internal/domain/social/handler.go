package social

import (
	"context"
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

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/posts", h.ListPosts)
		public.GET("/posts/recent", h.Recent)
		public.GET("/posts/:id", h.GetPost)
		public.GET("/posts/:id/comments", h.ListComments)
		public.GET("/users/:id/followers", h.Followers)
		public.GET("/users/:id/following", h.Following)
	}

	if protected != nil {
		protected.POST("/posts", h.CreatePost)
		protected.DELETE("/posts/:id", h.DeletePost)
		protected.POST("/posts/:id/comments", h.AddComment)
		protected.POST("/posts/:id/like", h.LikePost)
		protected.DELETE("/posts/:id/like", h.UnlikePost)
		protected.POST("/posts/:id/save", h.Save)
		protected.DELETE("/posts/:id/save", h.Unsave)
		protected.POST("/comments/:id/like", h.LikeComment)
		protected.DELETE("/comments/:id/like", h.UnlikeComment)
		protected.POST("/users/:id/follow", h.Follow)
		protected.DELETE("/users/:id/follow", h.Unfollow)
		protected.GET("/saved-posts", h.Saved)
	}
}

// ListPosts godoc
// @Summary	List posts
// @Tags		Social
// @Param		author		query	int		false	"Author user ID"
// @Param		tag			query	string	false	"Tag"
// @Param		search		query	string	false	"Content search"
// @Param		ordering	query	string	false	"created_at, likes_count, comments_count with optional '-' prefix"
// @Success	200	{object}	map[string]interface{}
// @Router		/posts [GET]
func (h *Handler) ListPosts(c *gin.Context) {
	f := PostFilter{
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "Invalid author")
			return
		}
		f.AuthorID = id
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPosts(c.Request.Context(), f, pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.svc.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"posts": items})
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parseID(c, "Invalid post ID")
	if !ok {
		return
	}
	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": post})
}

// CreatePost godoc
// @Summary	Publish a post
// @Tags		Social
// @Security	BearerAuth
// @Param		request	body	PostInput	true	"Post"
// @Success	201	{object}	map[string]interface{}
// @Router		/posts [POST]
func (h *Handler) CreatePost(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req PostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), p, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"post": post})
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "Invalid post ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), p, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *Handler) ListComments(c *gin.Context) {
	id, ok := parseID(c, "Invalid post ID")
	if !ok {
		return
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Comments(c.Request.Context(), id, pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "Invalid post ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), p, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"comment": comment})
}

func (h *Handler) LikePost(c *gin.Context)   { h.like(c, true, false) }
func (h *Handler) UnlikePost(c *gin.Context) { h.like(c, false, false) }

func (h *Handler) LikeComment(c *gin.Context)   { h.like(c, true, true) }
func (h *Handler) UnlikeComment(c *gin.Context) { h.like(c, false, true) }

func (h *Handler) like(c *gin.Context, on, comment bool) {
	msg := "Invalid post ID"
	if comment {
		msg = "Invalid comment ID"
	}
	id, ok := parseID(c, msg)
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	t := Target{PostID: id}
	if comment {
		t = Target{CommentID: id}
	}

	var (
		res *LikeResult
		err error
	)
	if on {
		res, err = h.svc.Like(c.Request.Context(), p, t)
	} else {
		res, err = h.svc.Unlike(c.Request.Context(), p, t)
	}
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Save(c *gin.Context) {
	id, ok := parseID(c, "Invalid post ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.Save(c.Request.Context(), p, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"saved": true})
}

func (h *Handler) Unsave(c *gin.Context) {
	id, ok := parseID(c, "Invalid post ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.Unsave(c.Request.Context(), p, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": false})
}

func (h *Handler) Saved(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Saved(c.Request.Context(), p, pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Follow(c *gin.Context) {
	id, ok := parseID(c, "Invalid user ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.Follow(c.Request.Context(), p, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"following": true})
}

func (h *Handler) Unfollow(c *gin.Context) {
	id, ok := parseID(c, "Invalid user ID")
	if !ok {
		return
	}
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.Unfollow(c.Request.Context(), p, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"following": false})
}

func (h *Handler) Followers(c *gin.Context) {
	h.relations(c, h.svc.Followers)
}

func (h *Handler) Following(c *gin.Context) {
	h.relations(c, h.svc.Following)
}

func (h *Handler) relations(c *gin.Context, list func(ctx context.Context, userID int64, pg pagination.Params) ([]domain.User, int64, error)) {
	id, ok := parseID(c, "Invalid user ID")
	if !ok {
		return
	}
	pg := pagination.FromContext(c)
	items, total, err := list(c.Request.Context(), id, pg)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.NewResponse(items, total, pg))
}

func parseID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}
