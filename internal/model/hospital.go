package model

import (
	"database/sql"
	"strings"
	"time"
)

// Hospital is the stored hospital row. Multi-value fields are kept as
// delimited strings for compatibility with the legacy schema: image URLs
// joined on ",", FAQ entries joined on "/" with each entry a
// "question,answer" pair.
type Hospital struct {
	ID        int64          `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Address   string         `json:"address" db:"address"`
	Phone     sql.NullString `json:"-" db:"phone"`
	OpenHours sql.NullString `json:"-" db:"open_hours"`
	ImageURLs string         `json:"-" db:"image_urls"`
	FAQ       string         `json:"-" db:"faq"`
	OwnerID   sql.NullInt64  `json:"-" db:"owner_id"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// Specialty is a shared lookup entity, unique by name.
type Specialty struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Veterinarian is a shared lookup entity, unique by name.
type Veterinarian struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// HospitalDetail is the API shape of a hospital: join tables resolved and
// delimited fields decoded into sequences.
type HospitalDetail struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Address       string         `json:"address"`
	Phone         *string        `json:"phone"`
	OpenHours     *string        `json:"openHours"`
	ImageURLs     []string       `json:"imageUrls"`
	FAQ           [][]string     `json:"faq"`
	OwnerID       *int64         `json:"ownerId"`
	Specialties   []Specialty    `json:"specialties"`
	Veterinarians []Veterinarian `json:"veterinarians"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Detail decodes the row into its API shape. Join-table fields are left for
// the caller to attach.
func (h *Hospital) Detail() *HospitalDetail {
	d := &HospitalDetail{
		ID:            h.ID,
		Name:          h.Name,
		Address:       h.Address,
		ImageURLs:     SplitImageURLs(h.ImageURLs),
		FAQ:           SplitFAQ(h.FAQ),
		Specialties:   []Specialty{},
		Veterinarians: []Veterinarian{},
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
	if h.Phone.Valid {
		d.Phone = &h.Phone.String
	}
	if h.OpenHours.Valid {
		d.OpenHours = &h.OpenHours.String
	}
	if h.OwnerID.Valid {
		d.OwnerID = &h.OwnerID.Int64
	}
	return d
}

// JoinImageURLs encodes image URLs for storage.
func JoinImageURLs(urls []string) string {
	return strings.Join(urls, ",")
}

// SplitImageURLs decodes the stored image URL string. Empty input yields an
// empty, non-nil slice so the field marshals as [].
func SplitImageURLs(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// JoinFAQ encodes question/answer pairs for storage.
func JoinFAQ(faq [][]string) string {
	entries := make([]string, 0, len(faq))
	for _, qa := range faq {
		entries = append(entries, strings.Join(qa, ","))
	}
	return strings.Join(entries, "/")
}

// SplitFAQ decodes the stored FAQ string into [question, answer] pairs.
func SplitFAQ(s string) [][]string {
	if s == "" {
		return [][]string{}
	}
	entries := strings.Split(s, "/")
	faq := make([][]string, 0, len(entries))
	for _, e := range entries {
		faq = append(faq, strings.Split(e, ","))
	}
	return faq
}

// HospitalSearchFilter carries directory search parameters.
type HospitalSearchFilter struct {
	Query     string `form:"q"`
	Address   string `form:"address"`
	Specialty string `form:"specialty"`
	Mine      bool
	OwnerID   int64
	Pagination
}

type CreateHospitalRequest struct {
	Name          string     `json:"name" binding:"required,min=2,max=50"`
	Address       string     `json:"address" binding:"required,min=2,max=100"`
	Phone         *string    `json:"phone" binding:"omitempty,max=20"`
	OpenHours     *string    `json:"openHours" binding:"omitempty,max=50"`
	Specialties   []string   `json:"specialties" binding:"required,min=1"`
	Veterinarians []string   `json:"veterinarians" binding:"required,min=1"`
	ImageURLs     []string   `json:"imageUrls"`
	FAQ           [][]string `json:"faq"`
	OwnerID       *int64     `json:"ownerId"`
}

// UpdateHospitalRequest applies partial-field semantics: only non-nil
// fields are written.
type UpdateHospitalRequest struct {
	Name      *string     `json:"name" binding:"omitempty,min=2,max=50"`
	Address   *string     `json:"address" binding:"omitempty,min=2,max=100"`
	Phone     *string     `json:"phone" binding:"omitempty,max=20"`
	OpenHours *string     `json:"openHours" binding:"omitempty,max=50"`
	ImageURLs *[]string   `json:"imageUrls"`
	FAQ       *[][]string `json:"faq"`
	OwnerID   *int64      `json:"ownerId"`
}

// HospitalStats aggregates review/reservation activity for one hospital.
type HospitalStats struct {
	ReviewCount         int64               `json:"reviewCount"`
	AvgRating           *float64            `json:"avgRating"`
	ReservationCount    int64               `json:"reservationCount"`
	MonthlyReservations []MonthlyCount      `json:"monthlyReservations"`
	MonthlyReviews      []MonthlyReviewStat `json:"monthlyReviews"`
}

// MonthlyCount is a calendar-month bucket ("YYYY-MM").
type MonthlyCount struct {
	Month string `json:"month" db:"month"`
	Count int64  `json:"count" db:"count"`
}

// MonthlyReviewStat is a calendar-month review bucket with its average rating.
type MonthlyReviewStat struct {
	Month     string  `json:"month" db:"month"`
	Count     int64   `json:"count" db:"count"`
	AvgRating float64 `json:"avgRating" db:"avg_rating"`
}
