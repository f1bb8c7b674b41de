package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/internal/service/authz"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

type Service struct {
	reports   repository.ReportRepository
	community repository.CommunityRepository
	audits    repository.AuditRepository
	policy    *authz.Policy
}

func NewService(reports repository.ReportRepository, community repository.CommunityRepository, audits repository.AuditRepository, policy *authz.Policy) *Service {
	return &Service{reports: reports, community: community, audits: audits, policy: policy}
}

// Create files a report against exactly one post or comment. New reports
// always start pending.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, req *model.CreateReportRequest) (*model.CommunityReport, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	if (req.PostID == nil) == (req.CommentID == nil) {
		return nil, apperror.BadRequest("exactly one of postId or commentId is required")
	}

	report := &model.CommunityReport{
		UserID: claims.UserID,
		Reason: req.Reason,
		Status: model.ReportStatusPending,
	}

	if req.PostID != nil {
		if _, err := s.community.GetPost(ctx, *req.PostID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("post")
			}
			return nil, apperror.Internal(err)
		}
		report.PostID = sql.NullInt64{Int64: *req.PostID, Valid: true}
	} else {
		if _, err := s.community.GetComment(ctx, *req.CommentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("comment")
			}
			return nil, apperror.Internal(err)
		}
		report.CommentID = sql.NullInt64{Int64: *req.CommentID, Valid: true}
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperror.Internal(err)
	}
	return report, nil
}

// Get returns one report with its target attached. Admin only.
func (s *Service) Get(ctx context.Context, claims *auth.Claims, reportID int64) (*model.CommunityReport, error) {
	if err := s.policy.RequireAdmin(claims); err != nil {
		return nil, err
	}

	report, err := s.reports.Get(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("report")
		}
		return nil, apperror.Internal(err)
	}
	return report, nil
}

// List returns the moderation queue. Admin only.
func (s *Service) List(ctx context.Context, claims *auth.Claims, filter *model.ReportFilter) ([]*model.CommunityReport, error) {
	if err := s.policy.RequireAdmin(claims); err != nil {
		return nil, err
	}

	if filter.Status != "" && !model.ValidReportStatus(filter.Status) {
		return nil, apperror.BadRequest("unknown report status")
	}
	if filter.Type != "" && filter.Type != model.ReportTargetPost && filter.Type != model.ReportTargetComment {
		return nil, apperror.BadRequest("unknown report type")
	}

	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reports, nil
}

// UpdateStatus moves a report through the moderation workflow and records
// the decision in the audit log. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, claims *auth.Claims, reportID int64, status string) (*model.CommunityReport, error) {
	if err := s.policy.RequireAdmin(claims); err != nil {
		return nil, err
	}

	if !model.ValidReportStatus(status) {
		return nil, apperror.BadRequest("unknown report status")
	}

	prev, err := s.reports.Get(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("report")
		}
		return nil, apperror.Internal(err)
	}
	prevStatus := prev.Status

	report, err := s.reports.UpdateStatus(ctx, reportID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("report")
		}
		return nil, apperror.Internal(err)
	}

	entry := &model.AuditLog{
		UserID:     claims.UserID,
		Action:     model.AuditActionReportReview,
		TargetID:   report.ID,
		TargetType: model.AuditTargetReport,
		Detail:     fmt.Sprintf("status: %s → %s", prevStatus, status),
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Int64("report_id", report.ID).Msg("failed to record report review")
	}

	return report, nil
}
