package social

import "maternity/internal/pkg/apperr"

var (
	ErrPostNotFound    = apperr.New(apperr.KindNotFound, "post not found")
	ErrCommentNotFound = apperr.New(apperr.KindNotFound, "comment not found")
	ErrUserNotFound    = apperr.New(apperr.KindNotFound, "user not found")
	ErrNotLiked        = apperr.New(apperr.KindNotFound, "like not found")
	ErrNotFollowing    = apperr.New(apperr.KindNotFound, "not following this user")
	ErrNotSaved        = apperr.New(apperr.KindNotFound, "post is not saved")

	ErrNotAuthor = apperr.New(apperr.KindPermission, "only the author can delete this post")

	ErrAlreadyLiked     = apperr.New(apperr.KindConflict, "already liked")
	ErrAlreadyFollowing = apperr.New(apperr.KindConflict, "already following this user")
	ErrAlreadySaved     = apperr.New(apperr.KindConflict, "post already saved")

	ErrCannotFollowSelf = apperr.Validation("cannot follow yourself")
	ErrInvalidPostType  = apperr.Validation("post_type must be one of text, image, video, article, tip")
	ErrInvalidParent    = apperr.Validation("parent comment must be a top-level comment on the same post")
	ErrInvalidOrdering  = apperr.Validation("unsupported ordering")
)
