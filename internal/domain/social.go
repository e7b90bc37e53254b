package domain

import "time"

type PostType string

const (
	PostText    PostType = "text"
	PostImage   PostType = "image"
	PostVideo   PostType = "video"
	PostArticle PostType = "article"
	PostTip     PostType = "tip"
)

func (t PostType) Valid() bool {
	switch t {
	case PostText, PostImage, PostVideo, PostArticle, PostTip:
		return true
	}
	return false
}

type Post struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	AuthorID      int64     `json:"author_id" gorm:"not null;index"`
	Author        *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	PostType      PostType  `json:"post_type" gorm:"size:10;not null"`
	MediaURL      string    `json:"media_url,omitempty" gorm:"size:500"`
	LikesCount    int       `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount int       `json:"comments_count" gorm:"not null;default:0"`
	Tags          []string  `json:"tags" gorm:"type:text;serializer:json"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Comment struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	PostID          int64     `json:"post_id" gorm:"not null;index"`
	Post            *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID        int64     `json:"author_id" gorm:"not null;index"`
	Author          *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	ParentCommentID *int64    `json:"parent_comment_id,omitempty" gorm:"index"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	LikesCount      int       `json:"likes_count" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Like targets exactly one of a post or a comment. NULLs are distinct in
// unique indexes, so each index only constrains its own target kind.
type Like struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_like_user_post;uniqueIndex:idx_like_user_comment"`
	PostID    *int64    `json:"post_id,omitempty" gorm:"uniqueIndex:idx_like_user_post"`
	CommentID *int64    `json:"comment_id,omitempty" gorm:"uniqueIndex:idx_like_user_comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Follow struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	FollowerID  int64     `json:"follower_id" gorm:"not null;uniqueIndex:idx_follow_pair"`
	FollowingID int64     `json:"following_id" gorm:"not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt   time.Time `json:"created_at"`
}

type SavedPost struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_saved_user_post"`
	PostID    int64     `json:"post_id" gorm:"not null;uniqueIndex:idx_saved_user_post"`
	Post      *Post     `json:"post,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
