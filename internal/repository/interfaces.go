package repository

import (
	"context"
	"errors"

	"github.com/petmily/vetcare-api/internal/model"
)

// Sentinel errors translated by implementations from store-specific failures.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	// UpdateRole changes the user's role and writes the audit row in one
	// transaction.
	UpdateRole(ctx context.Context, userID int64, newRole string, log *model.AuditLog) error
}

type HospitalRepository interface {
	Create(ctx context.Context, hospital *model.Hospital, specialties, veterinarians []string) error
	Get(ctx context.Context, id int64) (*model.Hospital, error)
	Search(ctx context.Context, filter *model.HospitalSearchFilter) ([]*model.Hospital, int64, error)
	Update(ctx context.Context, hospital *model.Hospital) error
	Delete(ctx context.Context, id int64) error

	SpecialtiesByHospital(ctx context.Context, hospitalIDs []int64) (map[int64][]model.Specialty, error)
	VeterinariansByHospital(ctx context.Context, hospitalIDs []int64) (map[int64][]model.Veterinarian, error)
	ListSpecialties(ctx context.Context) ([]model.Specialty, error)
	ListVeterinarians(ctx context.Context) ([]model.Veterinarian, error)

	Stats(ctx context.Context, hospitalID int64) (*model.HospitalStats, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	Get(ctx context.Context, id int64) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error)
	ListByHospital(ctx context.Context, hospitalID int64, status string) ([]*model.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Get(ctx context.Context, id int64) (*model.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Review, error)
	ListByHospital(ctx context.Context, hospitalID int64, page, limit int, order string) ([]*model.Review, int64, *float64, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id int64) error
}

type CommunityRepository interface {
	CreatePost(ctx context.Context, post *model.CommunityPost) error
	GetPost(ctx context.Context, id int64) (*model.CommunityPost, error)
	ListPosts(ctx context.Context, filter *model.PostFilter) ([]*model.CommunityPost, int64, error)
	UpdatePost(ctx context.Context, post *model.CommunityPost) error
	DeletePost(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, comment *model.CommunityComment) error
	GetComment(ctx context.Context, id int64) (*model.CommunityComment, error)
	ListComments(ctx context.Context, postID int64, parentID *int64) ([]*model.CommunityComment, error)
	UpdateComment(ctx context.Context, comment *model.CommunityComment) error
	DeleteComment(ctx context.Context, id int64) error

	CreateLike(ctx context.Context, postID, userID int64) (*model.CommunityLike, error)
	DeleteLike(ctx context.Context, postID, userID int64) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.CommunityReport) error
	Get(ctx context.Context, id int64) (*model.CommunityReport, error)
	List(ctx context.Context, filter *model.ReportFilter) ([]*model.CommunityReport, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.CommunityReport, error)
}

type AuditRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	// ListAll returns the most recent rows across all actors.
	ListAll(ctx context.Context, limit int) ([]*model.AuditLog, error)
	// ListForUser returns rows where the user is the actor, or the target of
	// a user-typed action.
	ListForUser(ctx context.Context, userID int64, limit int) ([]*model.AuditLog, error)
}
