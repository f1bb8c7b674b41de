package hospital

import (
	"context"
	"database/sql"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/petmily/vetcare-api/internal/cache"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/internal/service/authz"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

const (
	lookupCacheTTL   = 5 * time.Minute
	statsCacheTTL    = 5 * time.Minute
	specialtiesKey   = "specialties"
	veterinariansKey = "veterinarians"
)

type Service struct {
	hospitals repository.HospitalRepository
	policy    *authz.Policy
	lookups   *gocache.Cache
	stats     *cache.Cache
}

func NewService(hospitals repository.HospitalRepository, policy *authz.Policy, stats *cache.Cache) *Service {
	return &Service{
		hospitals: hospitals,
		policy:    policy,
		lookups:   gocache.New(lookupCacheTTL, 2*lookupCacheTTL),
		stats:     stats,
	}
}

// SearchResult is a page of the hospital directory.
type SearchResult struct {
	Hospitals []*model.HospitalDetail `json:"hospitals"`
	Total     int64                   `json:"total"`
}

// Search runs the public directory query. The mine filter restricts results
// to the caller's owned hospitals and requires the hospitalAdmin role.
func (s *Service) Search(ctx context.Context, claims *auth.Claims, filter *model.HospitalSearchFilter) (*SearchResult, error) {
	filter.Normalize()

	if filter.Mine {
		if claims == nil {
			return nil, apperror.Unauthorized("authentication required")
		}
		if claims.Role != model.RoleHospitalAdmin {
			return nil, apperror.Forbidden("hospital permission required")
		}
		filter.OwnerID = claims.UserID
	}

	hospitals, total, err := s.hospitals.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	details, err := s.attachLookups(ctx, hospitals)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Hospitals: details, Total: total}, nil
}

// Get returns one hospital with joins resolved.
func (s *Service) Get(ctx context.Context, id int64) (*model.HospitalDetail, error) {
	hospital, err := s.hospitals.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("hospital")
		}
		return nil, apperror.Internal(err)
	}

	details, err := s.attachLookups(ctx, []*model.Hospital{hospital})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// Create registers a hospital. Admin only; requires at least one specialty
// and veterinarian, created on first use.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, req *model.CreateHospitalRequest) (*model.HospitalDetail, error) {
	if err := s.policy.RequireAdmin(claims); err != nil {
		return nil, err
	}

	hospital := &model.Hospital{
		Name:      req.Name,
		Address:   req.Address,
		ImageURLs: model.JoinImageURLs(req.ImageURLs),
		FAQ:       model.JoinFAQ(req.FAQ),
	}
	if req.Phone != nil {
		hospital.Phone = sql.NullString{String: *req.Phone, Valid: true}
	}
	if req.OpenHours != nil {
		hospital.OpenHours = sql.NullString{String: *req.OpenHours, Valid: true}
	}
	if req.OwnerID != nil {
		hospital.OwnerID = sql.NullInt64{Int64: *req.OwnerID, Valid: true}
	}

	if err := s.hospitals.Create(ctx, hospital, req.Specialties, req.Veterinarians); err != nil {
		return nil, apperror.Internal(err)
	}

	s.lookups.Flush()

	return s.Get(ctx, hospital.ID)
}

// Update applies a partial patch. Admin or owning hospitalAdmin only.
func (s *Service) Update(ctx context.Context, claims *auth.Claims, id int64, req *model.UpdateHospitalRequest) (*model.HospitalDetail, error) {
	if err := s.policy.RequireHospitalAccess(ctx, claims, id); err != nil {
		return nil, err
	}

	hospital, err := s.hospitals.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("hospital")
		}
		return nil, apperror.Internal(err)
	}

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Address != nil {
		hospital.Address = *req.Address
	}
	if req.Phone != nil {
		hospital.Phone = sql.NullString{String: *req.Phone, Valid: true}
	}
	if req.OpenHours != nil {
		hospital.OpenHours = sql.NullString{String: *req.OpenHours, Valid: true}
	}
	if req.ImageURLs != nil {
		hospital.ImageURLs = model.JoinImageURLs(*req.ImageURLs)
	}
	if req.FAQ != nil {
		hospital.FAQ = model.JoinFAQ(*req.FAQ)
	}
	if req.OwnerID != nil {
		hospital.OwnerID = sql.NullInt64{Int64: *req.OwnerID, Valid: true}
	}

	if err := s.hospitals.Update(ctx, hospital); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("hospital")
		}
		return nil, apperror.Internal(err)
	}

	return s.Get(ctx, id)
}

// Delete removes a hospital. Admin or owning hospitalAdmin only.
func (s *Service) Delete(ctx context.Context, claims *auth.Claims, id int64) error {
	if err := s.policy.RequireHospitalAccess(ctx, claims, id); err != nil {
		return err
	}

	if err := s.hospitals.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("hospital")
		}
		return apperror.Internal(err)
	}

	_ = s.stats.Delete(ctx, cache.HospitalStatsKey(id))
	return nil
}

// ListSpecialties returns all specialty names, cached in-process.
func (s *Service) ListSpecialties(ctx context.Context) ([]model.Specialty, error) {
	if cached, ok := s.lookups.Get(specialtiesKey); ok {
		return cached.([]model.Specialty), nil
	}

	specialties, err := s.hospitals.ListSpecialties(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.lookups.SetDefault(specialtiesKey, specialties)
	return specialties, nil
}

// ListVeterinarians returns all veterinarian names, cached in-process.
func (s *Service) ListVeterinarians(ctx context.Context) ([]model.Veterinarian, error) {
	if cached, ok := s.lookups.Get(veterinariansKey); ok {
		return cached.([]model.Veterinarian), nil
	}

	veterinarians, err := s.hospitals.ListVeterinarians(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.lookups.SetDefault(veterinariansKey, veterinarians)
	return veterinarians, nil
}

// Stats returns aggregated review/reservation figures for one hospital.
// Admin or owning hospitalAdmin only. Served from Redis when warm.
func (s *Service) Stats(ctx context.Context, claims *auth.Claims, hospitalID int64) (*model.HospitalStats, error) {
	if err := s.policy.RequireHospitalAccess(ctx, claims, hospitalID); err != nil {
		return nil, err
	}

	key := cache.HospitalStatsKey(hospitalID)

	var cached model.HospitalStats
	if err := s.stats.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	stats, err := s.hospitals.Stats(ctx, hospitalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.stats.Set(ctx, key, stats, statsCacheTTL); err != nil {
		log.Warn().Err(err).Int64("hospital_id", hospitalID).Msg("failed to cache hospital stats")
	}

	return stats, nil
}

// attachLookups resolves the specialty and veterinarian joins for a batch of
// hospitals and decodes each row into its API shape.
func (s *Service) attachLookups(ctx context.Context, hospitals []*model.Hospital) ([]*model.HospitalDetail, error) {
	ids := make([]int64, 0, len(hospitals))
	for _, h := range hospitals {
		ids = append(ids, h.ID)
	}

	specialties, err := s.hospitals.SpecialtiesByHospital(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	veterinarians, err := s.hospitals.VeterinariansByHospital(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	details := make([]*model.HospitalDetail, 0, len(hospitals))
	for _, h := range hospitals {
		detail := h.Detail()
		if sp, ok := specialties[h.ID]; ok {
			detail.Specialties = sp
		}
		if vets, ok := veterinarians[h.ID]; ok {
			detail.Veterinarians = vets
		}
		details = append(details, detail)
	}
	return details, nil
}
