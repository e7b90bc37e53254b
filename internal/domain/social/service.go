package social

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
	"maternity/internal/pkg/utils"
	"maternity/internal/pkg/validator"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
	maxTags            = 10
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

type PostInput struct {
	Content  string          `json:"content" validate:"required,max=5000"`
	PostType domain.PostType `json:"post_type"`
	MediaURL string          `json:"media_url" validate:"omitempty,url,max=500"`
	Tags     []string        `json:"tags" validate:"max=10,dive,max=50"`
}

func (s *Service) CreatePost(ctx context.Context, p domain.Principal, in PostInput) (*domain.Post, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validator.Check(in); err != nil {
		return nil, err
	}
	if in.PostType == "" {
		in.PostType = domain.PostText
	}
	if !in.PostType.Valid() {
		return nil, ErrInvalidPostType
	}

	post := &domain.Post{
		AuthorID: p.UserID,
		Content:  in.Content,
		PostType: in.PostType,
		MediaURL: in.MediaURL,
		Tags:     normalizeTags(in.Tags),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().Int64("post_id", post.ID).Int64("author_id", p.UserID).Str("post_type", string(post.PostType)).Msg("post created")
	return s.repo.GetPost(ctx, post.ID)
}

func (s *Service) ListPosts(ctx context.Context, f PostFilter, pg pagination.Params) ([]domain.Post, int64, error) {
	return s.repo.ListPosts(ctx, f, pg)
}

// Recent returns the newest posts across all authors.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	rows, _, err := s.repo.ListPosts(ctx, PostFilter{}, pagination.Params{Limit: limit})
	return rows, err
}

func (s *Service) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.repo.GetPost(ctx, id)
}

func (s *Service) DeletePost(ctx context.Context, p domain.Principal, id int64) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		post, err := tx.GetPost(ctx, id)
		if err != nil {
			return err
		}
		if post.AuthorID != p.UserID {
			return ErrNotAuthor
		}
		return tx.DeletePost(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info().Int64("post_id", id).Int64("author_id", p.UserID).Msg("post deleted")
	return nil
}

type CommentInput struct {
	Content         string `json:"content" validate:"required,max=2000"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// Thread is a top-level comment with its direct replies.
type Thread struct {
	domain.Comment
	Replies []domain.Comment `json:"replies"`
}

// AddComment stores a comment and bumps the post's comments_count in the
// same transaction. Replies attach to a top-level comment of the same post.
func (s *Service) AddComment(ctx context.Context, p domain.Principal, postID int64, in CommentInput) (*domain.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	var c *domain.Comment
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetPost(ctx, postID); err != nil {
			return err
		}
		if in.ParentCommentID != nil {
			parent, err := tx.GetComment(ctx, *in.ParentCommentID)
			if errors.Is(err, ErrCommentNotFound) {
				return ErrInvalidParent
			}
			if err != nil {
				return err
			}
			if parent.PostID != postID || parent.ParentCommentID != nil {
				return ErrInvalidParent
			}
		}

		c = &domain.Comment{
			PostID:          postID,
			AuthorID:        p.UserID,
			ParentCommentID: in.ParentCommentID,
			Content:         in.Content,
		}
		if err := tx.CreateComment(ctx, c); err != nil {
			return err
		}
		return tx.AdjustComments(ctx, postID, 1)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetComment(ctx, c.ID)
}

func (s *Service) Comments(ctx context.Context, postID int64, pg pagination.Params) ([]Thread, int64, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, 0, err
	}
	top, total, err := s.repo.ListTopLevelComments(ctx, postID, pg)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(top))
	for i, c := range top {
		ids[i] = c.ID
	}
	replies, err := s.repo.ListReplies(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byParent := make(map[int64][]domain.Comment, len(top))
	for _, r := range replies {
		byParent[*r.ParentCommentID] = append(byParent[*r.ParentCommentID], r)
	}

	threads := make([]Thread, len(top))
	for i, c := range top {
		threads[i] = Thread{Comment: c, Replies: byParent[c.ID]}
		if threads[i].Replies == nil {
			threads[i].Replies = []domain.Comment{}
		}
	}
	return threads, total, nil
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

func (s *Service) Like(ctx context.Context, p domain.Principal, t Target) (*LikeResult, error) {
	return s.like(ctx, p, t, true)
}

func (s *Service) Unlike(ctx context.Context, p domain.Principal, t Target) (*LikeResult, error) {
	return s.like(ctx, p, t, false)
}

// like records or removes the caller's like and moves the target's counter
// in one transaction, so the counter always equals the number of like rows.
func (s *Service) like(ctx context.Context, p domain.Principal, t Target, on bool) (*LikeResult, error) {
	res := &LikeResult{Liked: on}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		if t.PostID > 0 {
			_, err = tx.GetPost(ctx, t.PostID)
		} else {
			_, err = tx.GetComment(ctx, t.CommentID)
		}
		if err != nil {
			return err
		}

		delta := 1
		if on {
			err = tx.CreateLike(ctx, p.UserID, t)
		} else {
			err = tx.DeleteLike(ctx, p.UserID, t)
			delta = -1
		}
		if err != nil {
			return err
		}
		res.LikesCount, err = tx.AdjustLikes(ctx, t, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) Follow(ctx context.Context, p domain.Principal, userID int64) error {
	if userID == p.UserID {
		return ErrCannotFollowSelf
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.CreateFollow(ctx, p.UserID, userID); err != nil {
		return err
	}
	s.log.Info().Int64("follower_id", p.UserID).Int64("following_id", userID).Msg("user followed")
	return nil
}

func (s *Service) Unfollow(ctx context.Context, p domain.Principal, userID int64) error {
	return s.repo.DeleteFollow(ctx, p.UserID, userID)
}

func (s *Service) Followers(ctx context.Context, userID int64, pg pagination.Params) ([]domain.User, int64, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListFollowers(ctx, userID, pg)
}

func (s *Service) Following(ctx context.Context, userID int64, pg pagination.Params) ([]domain.User, int64, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListFollowing(ctx, userID, pg)
}

func (s *Service) Save(ctx context.Context, p domain.Principal, postID int64) error {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return err
	}
	return s.repo.CreateSaved(ctx, p.UserID, postID)
}

func (s *Service) Unsave(ctx context.Context, p domain.Principal, postID int64) error {
	return s.repo.DeleteSaved(ctx, p.UserID, postID)
}

func (s *Service) Saved(ctx context.Context, p domain.Principal, pg pagination.Params) ([]domain.SavedPost, int64, error) {
	return s.repo.ListSaved(ctx, p.UserID, pg)
}

func (s *Service) ensureUser(ctx context.Context, id int64) error {
	ok, err := s.repo.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func normalizeTags(tags []string) []string {
	lowered := make([]string, len(tags))
	for i, t := range tags {
		lowered[i] = strings.ToLower(t)
	}
	out := utils.DistinctTrimmed(lowered)
	if len(out) > maxTags {
		out = out[:maxTags]
	}
	return out
}
