package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a per-hospital star rating with text.
type Review struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	HospitalID int64     `json:"hospitalId" db:"hospital_id"`
	Rating     int       `json:"rating" db:"rating"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	User     *UserRef        `json:"user,omitempty" db:"-"`
	Hospital *HospitalDetail `json:"hospital,omitempty" db:"-"`
}

type CreateReviewRequest struct {
	HospitalID int64  `json:"hospitalId" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ReviewPage is a paginated hospital review listing with its running average.
type ReviewPage struct {
	Reviews   []*Review `json:"reviews"`
	Total     int64     `json:"total"`
	AvgRating *float64  `json:"avgRating"`
}
