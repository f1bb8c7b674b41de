package model

import (
	"database/sql"
	"time"
)

// Report statuses
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// ValidReportStatus reports whether status is a known value.
func ValidReportStatus(status string) bool {
	switch status {
	case ReportStatusPending, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}

// Report target types used in listing filters.
const (
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
)

// CommunityReport flags a post or a comment for moderation. Exactly one of
// PostID/CommentID is set.
type CommunityReport struct {
	ID        int64         `json:"id" db:"id"`
	PostID    sql.NullInt64 `json:"-" db:"post_id"`
	CommentID sql.NullInt64 `json:"-" db:"comment_id"`
	UserID    int64         `json:"userId" db:"user_id"`
	Reason    string        `json:"reason" db:"reason"`
	Status    string        `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`

	User    *UserRef    `json:"user,omitempty" db:"-"`
	Post    *PostRef    `json:"post,omitempty" db:"-"`
	Comment *CommentRef `json:"comment,omitempty" db:"-"`
}

// PostRef is the reported-post summary embedded in report listings.
type PostRef struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// CommentRef is the reported-comment summary embedded in report listings.
type CommentRef struct {
	ID      int64  `json:"id" db:"id"`
	Content string `json:"content" db:"content"`
}

type CreateReportRequest struct {
	PostID    *int64 `json:"postId"`
	CommentID *int64 `json:"commentId"`
	Reason    string `json:"reason" binding:"required"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required,reportstatus"`
}

// ReportFilter carries moderation-queue listing parameters.
type ReportFilter struct {
	Status  string `form:"status"`
	Type    string `form:"type"`
	Keyword string `form:"keyword"`
}
