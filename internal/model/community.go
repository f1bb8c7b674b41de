package model

import (
	"database/sql"
	"time"
)

// CommunityPost is a forum post.
type CommunityPost struct {
	ID        int64          `json:"id" db:"id"`
	UserID    int64          `json:"userId" db:"user_id"`
	Title     string         `json:"title" db:"title"`
	Content   string         `json:"content" db:"content"`
	Category  sql.NullString `json:"-" db:"category"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`

	User *UserRef `json:"user,omitempty" db:"-"`
}

// CategoryValue returns the category or an empty string.
func (p *CommunityPost) CategoryValue() string {
	if p.Category.Valid {
		return p.Category.String
	}
	return ""
}

// CommunityComment is a post comment with at most one level of nesting.
type CommunityComment struct {
	ID              int64         `json:"id" db:"id"`
	PostID          int64         `json:"postId" db:"post_id"`
	UserID          int64         `json:"userId" db:"user_id"`
	Content         string        `json:"content" db:"content"`
	ParentCommentID sql.NullInt64 `json:"-" db:"parent_comment_id"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`

	User    *UserRef            `json:"user,omitempty" db:"-"`
	Replies []*CommunityComment `json:"replies,omitempty" db:"-"`
}

// CommunityLike is a unique (post, user) pair.
type CommunityLike struct {
	PostID    int64     `json:"postId" db:"post_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreatePostRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

type UpdatePostRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID *int64 `json:"parentCommentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostPage is a paginated post listing.
type PostPage struct {
	Posts []*CommunityPost `json:"posts"`
	Total int64            `json:"total"`
}

// PostFilter carries forum listing parameters.
type PostFilter struct {
	Category string `form:"category"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
