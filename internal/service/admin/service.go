package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/internal/service/authz"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

type Service struct {
	users  repository.UserRepository
	audits repository.AuditRepository
	policy *authz.Policy
}

func NewService(users repository.UserRepository, audits repository.AuditRepository, policy *authz.Policy) *Service {
	return &Service{users: users, audits: audits, policy: policy}
}

// ListUsers returns every account. Admin only.
func (s *Service) ListUsers(ctx context.Context, claims *auth.Claims) ([]*model.User, error) {
	if err := s.policy.RequireAdmin(claims); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

// ChangeRole grants or revokes a user's role and records the change in the
// audit log within the same transaction. Granting the same role again is an
// error.
func (s *Service) ChangeRole(ctx context.Context, claims *auth.Claims, targetID int64, newRole string) (*model.User, error) {
	if err := s.policy.RequireAdmin(claims); err != nil {
		return nil, err
	}

	if !model.ValidRole(newRole) {
		return nil, apperror.BadRequest("unknown role")
	}

	target, err := s.users.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}
	if target.Role == newRole {
		return nil, apperror.BadRequest("user already has this role")
	}

	action := model.AuditActionRoleGrant
	if newRole == model.RoleUser {
		action = model.AuditActionRoleRevoke
	}
	entry := &model.AuditLog{
		UserID:     claims.UserID,
		Action:     action,
		TargetID:   target.ID,
		TargetType: model.AuditTargetUser,
		Detail:     fmt.Sprintf("role: %s → %s", target.Role, newRole),
	}

	if err := s.users.UpdateRole(ctx, target.ID, newRole, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}

	target.Role = newRole
	return target, nil
}

// ListAuditLogs returns recent audit rows, newest first, capped at 200.
// Admins see everything; hospital admins see only rows where they acted or
// were the target. Plain users are rejected.
func (s *Service) ListAuditLogs(ctx context.Context, claims *auth.Claims) ([]*model.AuditLog, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	var (
		logs []*model.AuditLog
		err  error
	)
	switch claims.Role {
	case model.RoleAdmin:
		logs, err = s.audits.ListAll(ctx, model.AuditLogListLimit)
	case model.RoleHospitalAdmin:
		logs, err = s.audits.ListForUser(ctx, claims.UserID, model.AuditLogListLimit)
	default:
		return nil, apperror.Forbidden("admin permission required")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return logs, nil
}
