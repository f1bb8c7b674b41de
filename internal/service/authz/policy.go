package authz

import (
	"context"
	"errors"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

// Policy is the single authorization rule consulted by every handler that
// guards a mutation or sensitive read. Nil claims mean no valid credential
// was presented and always map to 401; an authenticated caller lacking the
// required role or ownership maps to 403.
type Policy struct {
	hospitals repository.HospitalRepository
}

func NewPolicy(hospitals repository.HospitalRepository) *Policy {
	return &Policy{hospitals: hospitals}
}

// RequireAuthenticated admits any logged-in caller.
func (p *Policy) RequireAuthenticated(claims *auth.Claims) error {
	if claims == nil {
		return apperror.Unauthorized("authentication required")
	}
	return nil
}

// RequireAdmin admits admins only.
func (p *Policy) RequireAdmin(claims *auth.Claims) error {
	if claims == nil {
		return apperror.Unauthorized("authentication required")
	}
	if claims.Role != model.RoleAdmin {
		return apperror.Forbidden("admin permission required")
	}
	return nil
}

// RequireHospitalAccess admits admins, and hospitalAdmins that own the
// hospital.
func (p *Policy) RequireHospitalAccess(ctx context.Context, claims *auth.Claims, hospitalID int64) error {
	if claims == nil {
		return apperror.Unauthorized("authentication required")
	}

	switch claims.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleHospitalAdmin:
		hospital, err := p.hospitals.Get(ctx, hospitalID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NotFound("hospital")
			}
			return apperror.Internal(err)
		}
		if !hospital.OwnerID.Valid || hospital.OwnerID.Int64 != claims.UserID {
			return apperror.Forbidden("you may only access your own hospital")
		}
		return nil
	default:
		return apperror.Forbidden("hospital permission required")
	}
}

// RequireOwner admits the resource's authoring user.
func (p *Policy) RequireOwner(claims *auth.Claims, resourceUserID int64) error {
	if claims == nil {
		return apperror.Unauthorized("authentication required")
	}
	if claims.UserID != resourceUserID {
		return apperror.Forbidden("you may only modify your own resource")
	}
	return nil
}
