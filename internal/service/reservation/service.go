package reservation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/petmily/vetcare-api/internal/cache"
	"github.com/petmily/vetcare-api/internal/email"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/internal/service/authz"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

type Service struct {
	reservations repository.ReservationRepository
	hospitals    repository.HospitalRepository
	users        repository.UserRepository
	policy       *authz.Policy
	stats        *cache.Cache
	emailSvc     email.Service
}

func NewService(reservations repository.ReservationRepository, hospitals repository.HospitalRepository,
	users repository.UserRepository, policy *authz.Policy, stats *cache.Cache, emailSvc email.Service) *Service {
	return &Service{
		reservations: reservations,
		hospitals:    hospitals,
		users:        users,
		policy:       policy,
		stats:        stats,
		emailSvc:     emailSvc,
	}
}

// Create books a pending reservation for the calling user.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, req *model.CreateReservationRequest) (*model.Reservation, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	if _, err := s.hospitals.Get(ctx, req.HospitalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("hospital")
		}
		return nil, apperror.Internal(err)
	}

	reservation := &model.Reservation{
		UserID:     claims.UserID,
		HospitalID: req.HospitalID,
		ReservedAt: req.ReservedAt,
		Status:     model.ReservationStatusPending,
	}
	if req.Memo != "" {
		reservation.Memo = sql.NullString{String: req.Memo, Valid: true}
	}

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, apperror.Internal(err)
	}

	s.invalidateStats(ctx, req.HospitalID)
	return reservation, nil
}

// ListForUser returns the caller's own reservations.
func (s *Service) ListForUser(ctx context.Context, claims *auth.Claims) ([]*model.Reservation, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	reservations, err := s.reservations.ListByUser(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reservations, nil
}

// ListForHospital returns a hospital's reservations. Admin or owning
// hospitalAdmin only.
func (s *Service) ListForHospital(ctx context.Context, claims *auth.Claims, hospitalID int64, status string) ([]*model.Reservation, error) {
	if err := s.policy.RequireHospitalAccess(ctx, claims, hospitalID); err != nil {
		return nil, err
	}

	reservations, err := s.reservations.ListByHospital(ctx, hospitalID, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reservations, nil
}

// UpdateStatus transitions a reservation under the given hospital. Admin or
// owning hospitalAdmin only; the reservation must belong to that hospital.
func (s *Service) UpdateStatus(ctx context.Context, claims *auth.Claims, hospitalID, reservationID int64, status string) (*model.Reservation, error) {
	if err := s.policy.RequireHospitalAccess(ctx, claims, hospitalID); err != nil {
		return nil, err
	}

	if !model.ValidReservationStatus(status) {
		return nil, apperror.BadRequest("unknown reservation status")
	}

	reservation, err := s.reservations.Get(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("reservation")
		}
		return nil, apperror.Internal(err)
	}
	if reservation.HospitalID != hospitalID {
		return nil, apperror.NotFound("reservation")
	}

	if err := s.reservations.UpdateStatus(ctx, reservationID, status); err != nil {
		return nil, apperror.Internal(err)
	}
	reservation.Status = status

	s.invalidateStats(ctx, hospitalID)
	s.notifyStatusChange(ctx, reservation)

	return reservation, nil
}

// Cancel lets the reserving user cancel their own pending reservation.
func (s *Service) Cancel(ctx context.Context, claims *auth.Claims, reservationID int64) (*model.Reservation, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	reservation, err := s.reservations.Get(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("reservation")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.policy.RequireOwner(claims, reservation.UserID); err != nil {
		return nil, err
	}
	if reservation.Status != model.ReservationStatusPending {
		return nil, apperror.BadRequest("only pending reservations can be cancelled")
	}

	if err := s.reservations.UpdateStatus(ctx, reservationID, model.ReservationStatusCancelled); err != nil {
		return nil, apperror.Internal(err)
	}
	reservation.Status = model.ReservationStatusCancelled

	s.invalidateStats(ctx, reservation.HospitalID)
	return reservation, nil
}

func (s *Service) invalidateStats(ctx context.Context, hospitalID int64) {
	if err := s.stats.Delete(ctx, cache.HospitalStatsKey(hospitalID)); err != nil {
		log.Warn().Err(err).Int64("hospital_id", hospitalID).Msg("failed to invalidate stats cache")
	}
}

// notifyStatusChange mails the reserving user; failures are logged only.
func (s *Service) notifyStatusChange(ctx context.Context, reservation *model.Reservation) {
	user, err := s.users.Get(ctx, reservation.UserID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", reservation.UserID).Msg("failed to load user for reservation mail")
		return
	}
	hospital, err := s.hospitals.Get(ctx, reservation.HospitalID)
	if err != nil {
		log.Warn().Err(err).Int64("hospital_id", reservation.HospitalID).Msg("failed to load hospital for reservation mail")
		return
	}
	if err := s.emailSvc.SendReservationStatus(ctx, user.Email, hospital.Name, reservation.Status); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("failed to send reservation mail")
	}
}
