package authz

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

type stubHospitalRepo struct {
	hospitals map[int64]*model.Hospital
}

func (r *stubHospitalRepo) Create(context.Context, *model.Hospital, []string, []string) error {
	return nil
}

func (r *stubHospitalRepo) Get(_ context.Context, id int64) (*model.Hospital, error) {
	h, ok := r.hospitals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return h, nil
}

func (r *stubHospitalRepo) Search(context.Context, *model.HospitalSearchFilter) ([]*model.Hospital, int64, error) {
	return nil, 0, nil
}

func (r *stubHospitalRepo) Update(context.Context, *model.Hospital) error { return nil }
func (r *stubHospitalRepo) Delete(context.Context, int64) error           { return nil }

func (r *stubHospitalRepo) SpecialtiesByHospital(context.Context, []int64) (map[int64][]model.Specialty, error) {
	return nil, nil
}

func (r *stubHospitalRepo) VeterinariansByHospital(context.Context, []int64) (map[int64][]model.Veterinarian, error) {
	return nil, nil
}

func (r *stubHospitalRepo) ListSpecialties(context.Context) ([]model.Specialty, error) {
	return nil, nil
}

func (r *stubHospitalRepo) ListVeterinarians(context.Context) ([]model.Veterinarian, error) {
	return nil, nil
}

func (r *stubHospitalRepo) Stats(context.Context, int64) (*model.HospitalStats, error) {
	return nil, nil
}

func testPolicy() *Policy {
	return NewPolicy(&stubHospitalRepo{hospitals: map[int64]*model.Hospital{
		1: {ID: 1, OwnerID: sql.NullInt64{Int64: 10, Valid: true}},
		2: {ID: 2, OwnerID: sql.NullInt64{Int64: 20, Valid: true}},
		3: {ID: 3},
	}})
}

func claims(userID int64, role string) *auth.Claims {
	return &auth.Claims{UserID: userID, Role: role}
}

func TestRequireAuthenticated(t *testing.T) {
	p := testPolicy()
	assert.True(t, apperror.Is(p.RequireAuthenticated(nil), http.StatusUnauthorized))
	assert.NoError(t, p.RequireAuthenticated(claims(1, model.RoleUser)))
}

func TestRequireAdmin(t *testing.T) {
	p := testPolicy()
	assert.True(t, apperror.Is(p.RequireAdmin(nil), http.StatusUnauthorized))
	assert.True(t, apperror.Is(p.RequireAdmin(claims(1, model.RoleUser)), http.StatusForbidden))
	assert.True(t, apperror.Is(p.RequireAdmin(claims(1, model.RoleHospitalAdmin)), http.StatusForbidden))
	assert.NoError(t, p.RequireAdmin(claims(1, model.RoleAdmin)))
}

func TestRequireHospitalAccess(t *testing.T) {
	p := testPolicy()
	ctx := context.Background()

	// anonymous
	assert.True(t, apperror.Is(p.RequireHospitalAccess(ctx, nil, 1), http.StatusUnauthorized))

	// admin reaches any hospital
	assert.NoError(t, p.RequireHospitalAccess(ctx, claims(99, model.RoleAdmin), 1))

	// owner reaches their own hospital
	assert.NoError(t, p.RequireHospitalAccess(ctx, claims(10, model.RoleHospitalAdmin), 1))

	// owner of hospital 1 cannot reach hospital 2
	assert.True(t, apperror.Is(p.RequireHospitalAccess(ctx, claims(10, model.RoleHospitalAdmin), 2), http.StatusForbidden))

	// ownerless hospital admits nobody but admins
	assert.True(t, apperror.Is(p.RequireHospitalAccess(ctx, claims(10, model.RoleHospitalAdmin), 3), http.StatusForbidden))

	// plain users never have hospital access
	assert.True(t, apperror.Is(p.RequireHospitalAccess(ctx, claims(10, model.RoleUser), 1), http.StatusForbidden))

	// unknown hospital
	assert.True(t, apperror.Is(p.RequireHospitalAccess(ctx, claims(10, model.RoleHospitalAdmin), 404), http.StatusNotFound))
}

func TestRequireOwner(t *testing.T) {
	p := testPolicy()
	assert.True(t, apperror.Is(p.RequireOwner(nil, 1), http.StatusUnauthorized))
	assert.True(t, apperror.Is(p.RequireOwner(claims(2, model.RoleUser), 1), http.StatusForbidden))
	assert.NoError(t, p.RequireOwner(claims(1, model.RoleUser), 1))
}
