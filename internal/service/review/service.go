package review

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/petmily/vetcare-api/internal/cache"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/internal/service/authz"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

type Service struct {
	reviews   repository.ReviewRepository
	hospitals repository.HospitalRepository
	policy    *authz.Policy
	stats     *cache.Cache
}

func NewService(reviews repository.ReviewRepository, hospitals repository.HospitalRepository,
	policy *authz.Policy, stats *cache.Cache) *Service {
	return &Service{
		reviews:   reviews,
		hospitals: hospitals,
		policy:    policy,
		stats:     stats,
	}
}

// Create posts a review on a hospital for the calling user.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, hospitalID int64, req *model.CreateReviewRequest) (*model.Review, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	if _, err := s.hospitals.Get(ctx, hospitalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("hospital")
		}
		return nil, apperror.Internal(err)
	}

	review := &model.Review{
		UserID:     claims.UserID,
		HospitalID: hospitalID,
		Rating:     req.Rating,
		Content:    req.Content,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperror.Internal(err)
	}

	s.invalidateStats(ctx, hospitalID)
	return review, nil
}

// ListForHospital pages a hospital's reviews, newest first unless asked
// otherwise, with total and average rating.
func (s *Service) ListForHospital(ctx context.Context, hospitalID int64, page, limit int, order string) (*model.ReviewPage, error) {
	p := model.Pagination{Page: page, Limit: limit}
	p.Normalize()

	reviews, total, avg, err := s.reviews.ListByHospital(ctx, hospitalID, p.Page, p.Limit, order)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &model.ReviewPage{Reviews: reviews, Total: total, AvgRating: avg}, nil
}

// ListForUser returns the caller's own reviews.
func (s *Service) ListForUser(ctx context.Context, claims *auth.Claims) ([]*model.Review, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByUser(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

// Update edits the caller's own review.
func (s *Service) Update(ctx context.Context, claims *auth.Claims, reviewID int64, req *model.UpdateReviewRequest) (*model.Review, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	review, err := s.loadOwned(ctx, claims, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.Content = req.Content
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, apperror.Internal(err)
	}

	s.invalidateStats(ctx, review.HospitalID)
	return review, nil
}

// Delete removes the caller's own review.
func (s *Service) Delete(ctx context.Context, claims *auth.Claims, reviewID int64) error {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return err
	}

	review, err := s.loadOwned(ctx, claims, reviewID)
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return apperror.Internal(err)
	}

	s.invalidateStats(ctx, review.HospitalID)
	return nil
}

func (s *Service) loadOwned(ctx context.Context, claims *auth.Claims, reviewID int64) (*model.Review, error) {
	review, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("review")
		}
		return nil, apperror.Internal(err)
	}
	if err := s.policy.RequireOwner(claims, review.UserID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) invalidateStats(ctx context.Context, hospitalID int64) {
	if err := s.stats.Delete(ctx, cache.HospitalStatsKey(hospitalID)); err != nil {
		log.Warn().Err(err).Int64("hospital_id", hospitalID).Msg("failed to invalidate stats cache")
	}
}

func validateRating(rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return apperror.BadRequest("rating must be between 1 and 5")
	}
	return nil
}
