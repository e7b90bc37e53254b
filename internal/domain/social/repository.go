package social

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maternity/internal/database"
	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
	"maternity/internal/pkg/utils"
)

type PostFilter struct {
	AuthorID int64
	Tag      string
	Search   string
	Ordering string
}

var postOrderings = map[string]string{
	"created_at":      "posts.created_at ASC",
	"-created_at":     "posts.created_at DESC",
	"likes_count":     "posts.likes_count ASC",
	"-likes_count":    "posts.likes_count DESC",
	"comments_count":  "posts.comments_count ASC",
	"-comments_count": "posts.comments_count DESC",
}

// Target names the row a like points at. Exactly one field is set.
type Target struct {
	PostID    int64
	CommentID int64
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	CreatePost(ctx context.Context, p *domain.Post) error
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context, f PostFilter, pg pagination.Params) ([]domain.Post, int64, error)
	DeletePost(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, c *domain.Comment) error
	GetComment(ctx context.Context, id int64) (*domain.Comment, error)
	ListTopLevelComments(ctx context.Context, postID int64, pg pagination.Params) ([]domain.Comment, int64, error)
	ListReplies(ctx context.Context, parentIDs []int64) ([]domain.Comment, error)

	CreateLike(ctx context.Context, userID int64, t Target) error
	DeleteLike(ctx context.Context, userID int64, t Target) error
	AdjustLikes(ctx context.Context, t Target, delta int) (int, error)
	AdjustComments(ctx context.Context, postID int64, delta int) error

	UserExists(ctx context.Context, id int64) (bool, error)
	CreateFollow(ctx context.Context, followerID, followingID int64) error
	DeleteFollow(ctx context.Context, followerID, followingID int64) error
	ListFollowers(ctx context.Context, userID int64, pg pagination.Params) ([]domain.User, int64, error)
	ListFollowing(ctx context.Context, userID int64, pg pagination.Params) ([]domain.User, int64, error)

	CreateSaved(ctx context.Context, userID, postID int64) error
	DeleteSaved(ctx context.Context, userID, postID int64) error
	ListSaved(ctx context.Context, userID int64, pg pagination.Params) ([]domain.SavedPost, int64, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) CreatePost(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *GormRepository) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepository) ListPosts(ctx context.Context, f PostFilter, pg pagination.Params) ([]domain.Post, int64, error) {
	order := postOrderings["-created_at"]
	if f.Ordering != "" {
		o, ok := postOrderings[f.Ordering]
		if !ok {
			return nil, 0, ErrInvalidOrdering
		}
		order = o
	}

	q := r.db.WithContext(ctx).Model(&domain.Post{})
	if f.AuthorID > 0 {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.Tag != "" {
		pattern := database.ContainsPattern(utils.JSONColumn(strings.ToLower(f.Tag)))
		q = q.Where(`posts.tags LIKE ? ESCAPE '\'`, pattern)
	}
	if f.Search != "" {
		q = q.Where(`LOWER(posts.content) LIKE ? ESCAPE '\'`, database.ContainsPattern(strings.ToLower(f.Search)))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Post
	err := q.Preload("Author").
		Order(order).
		Order("posts.id DESC").
		Limit(pg.Limit).
		Offset(pg.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeletePost removes the post together with its likes. Comments and saved
// entries go with the post through their foreign keys, so the comment likes
// are cleared first.
func (r *GormRepository) DeletePost(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	commentIDs := db.Model(&domain.Comment{}).Select("id").Where("post_id = ?", id)
	if err := db.Where("comment_id IN (?)", commentIDs).Delete(&domain.Like{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", id).Delete(&domain.SavedPost{}).Error; err != nil {
		return err
	}
	res := db.Delete(&domain.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *GormRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *GormRepository) GetComment(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) ListTopLevelComments(ctx context.Context, postID int64, pg pagination.Params) ([]domain.Comment, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("post_id = ? AND parent_comment_id IS NULL", postID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Comment
	err := q.Preload("Author").
		Order("created_at ASC").
		Order("id ASC").
		Limit(pg.Limit).
		Offset(pg.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormRepository) ListReplies(ctx context.Context, parentIDs []int64) ([]domain.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var rows []domain.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("parent_comment_id IN ?", parentIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormRepository) CreateLike(ctx context.Context, userID int64, t Target) error {
	like := &domain.Like{UserID: userID}
	if t.PostID > 0 {
		like.PostID = &t.PostID
	} else {
		like.CommentID = &t.CommentID
	}
	err := r.db.WithContext(ctx).Create(like).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyLiked
	}
	return err
}

func (r *GormRepository) DeleteLike(ctx context.Context, userID int64, t Target) error {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if t.PostID > 0 {
		q = q.Where("post_id = ?", t.PostID)
	} else {
		q = q.Where("comment_id = ?", t.CommentID)
	}
	res := q.Delete(&domain.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotLiked
	}
	return nil
}

// AdjustLikes moves the target's likes_count by delta and returns the new
// value.
func (r *GormRepository) AdjustLikes(ctx context.Context, t Target, delta int) (int, error) {
	var model any = &domain.Post{}
	id, missing := t.PostID, ErrPostNotFound
	if t.PostID == 0 {
		model, id, missing = &domain.Comment{}, t.CommentID, ErrCommentNotFound
	}

	db := r.db.WithContext(ctx)
	res := db.Model(model).
		Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, missing
	}

	var count int
	err := db.Model(model).Select("likes_count").Where("id = ?", id).Scan(&count).Error
	return count, err
}

func (r *GormRepository) AdjustComments(ctx context.Context, postID int64, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *GormRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormRepository) CreateFollow(ctx context.Context, followerID, followingID int64) error {
	err := r.db.WithContext(ctx).Create(&domain.Follow{FollowerID: followerID, FollowingID: followingID}).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyFollowing
	}
	return err
}

func (r *GormRepository) DeleteFollow(ctx context.Context, followerID, followingID int64) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&domain.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (r *GormRepository) ListFollowers(ctx context.Context, userID int64, pg pagination.Params) ([]domain.User, int64, error) {
	return r.listUsers(ctx, "follows.follower_id", "follows.following_id = ?", userID, pg)
}

func (r *GormRepository) ListFollowing(ctx context.Context, userID int64, pg pagination.Params) ([]domain.User, int64, error) {
	return r.listUsers(ctx, "follows.following_id", "follows.follower_id = ?", userID, pg)
}

func (r *GormRepository) listUsers(ctx context.Context, joinCol, where string, userID int64, pg pagination.Params) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(where, userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.User
	err := q.Select("users.*").
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Limit(pg.Limit).
		Offset(pg.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormRepository) CreateSaved(ctx context.Context, userID, postID int64) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&domain.SavedPost{UserID: userID, PostID: postID}).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadySaved
	}
	return err
}

func (r *GormRepository) DeleteSaved(ctx context.Context, userID, postID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&domain.SavedPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotSaved
	}
	return nil
}

func (r *GormRepository) ListSaved(ctx context.Context, userID int64, pg pagination.Params) ([]domain.SavedPost, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.SavedPost{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.SavedPost
	err := q.Preload("Post.Author").
		Order("created_at DESC").
		Order("id DESC").
		Limit(pg.Limit).
		Offset(pg.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
