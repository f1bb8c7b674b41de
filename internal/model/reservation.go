package model

import (
	"database/sql"
	"time"
)

// Reservation statuses
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
)

// ValidReservationStatus reports whether status is a known value.
func ValidReservationStatus(status string) bool {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCompleted, ReservationStatusCancelled:
		return true
	}
	return false
}

// Reservation is a per-user, per-hospital booking record.
type Reservation struct {
	ID         int64          `json:"id" db:"id"`
	UserID     int64          `json:"userId" db:"user_id"`
	HospitalID int64          `json:"hospitalId" db:"hospital_id"`
	ReservedAt time.Time      `json:"reservedAt" db:"reserved_at"`
	Status     string         `json:"status" db:"status"`
	Memo       sql.NullString `json:"-" db:"memo"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at"`

	// Embedded per listing context; nil when not loaded.
	User     *UserRef        `json:"user,omitempty" db:"-"`
	Hospital *HospitalDetail `json:"hospital,omitempty" db:"-"`
}

// MemoValue returns the memo or an empty string.
func (r *Reservation) MemoValue() string {
	if r.Memo.Valid {
		return r.Memo.String
	}
	return ""
}

type CreateReservationRequest struct {
	HospitalID int64     `json:"hospitalId" binding:"required"`
	ReservedAt time.Time `json:"reservedAt" binding:"required"`
	Memo       string    `json:"memo"`
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required,reservationstatus"`
}
