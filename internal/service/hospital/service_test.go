package hospital

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/internal/service/authz"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

type fakeHospitalRepo struct {
	hospitals   map[int64]*model.Hospital
	specialties map[int64][]model.Specialty
	vets        map[int64][]model.Veterinarian
	nextID      int64
}

func newFakeHospitalRepo() *fakeHospitalRepo {
	return &fakeHospitalRepo{
		hospitals:   make(map[int64]*model.Hospital),
		specialties: make(map[int64][]model.Specialty),
		vets:        make(map[int64][]model.Veterinarian),
		nextID:      1,
	}
}

func (r *fakeHospitalRepo) Create(_ context.Context, hospital *model.Hospital, specialties, vets []string) error {
	hospital.ID = r.nextID
	r.nextID++
	r.hospitals[hospital.ID] = hospital
	for i, name := range specialties {
		r.specialties[hospital.ID] = append(r.specialties[hospital.ID], model.Specialty{ID: int64(i + 1), Name: name})
	}
	for i, name := range vets {
		r.vets[hospital.ID] = append(r.vets[hospital.ID], model.Veterinarian{ID: int64(i + 1), Name: name})
	}
	return nil
}

func (r *fakeHospitalRepo) Get(_ context.Context, id int64) (*model.Hospital, error) {
	h, ok := r.hospitals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return h, nil
}

func (r *fakeHospitalRepo) Search(_ context.Context, filter *model.HospitalSearchFilter) ([]*model.Hospital, int64, error) {
	var out []*model.Hospital
	for _, h := range r.hospitals {
		if filter.OwnerID != 0 && (!h.OwnerID.Valid || h.OwnerID.Int64 != filter.OwnerID) {
			continue
		}
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (r *fakeHospitalRepo) Update(_ context.Context, hospital *model.Hospital) error {
	if _, ok := r.hospitals[hospital.ID]; !ok {
		return repository.ErrNotFound
	}
	r.hospitals[hospital.ID] = hospital
	return nil
}

func (r *fakeHospitalRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.hospitals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.hospitals, id)
	return nil
}

func (r *fakeHospitalRepo) SpecialtiesByHospital(_ context.Context, ids []int64) (map[int64][]model.Specialty, error) {
	out := make(map[int64][]model.Specialty)
	for _, id := range ids {
		if sp, ok := r.specialties[id]; ok {
			out[id] = sp
		}
	}
	return out, nil
}

func (r *fakeHospitalRepo) VeterinariansByHospital(_ context.Context, ids []int64) (map[int64][]model.Veterinarian, error) {
	out := make(map[int64][]model.Veterinarian)
	for _, id := range ids {
		if v, ok := r.vets[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (r *fakeHospitalRepo) ListSpecialties(_ context.Context) ([]model.Specialty, error) {
	var out []model.Specialty
	for _, sp := range r.specialties {
		out = append(out, sp...)
	}
	return out, nil
}

func (r *fakeHospitalRepo) ListVeterinarians(_ context.Context) ([]model.Veterinarian, error) {
	var out []model.Veterinarian
	for _, v := range r.vets {
		out = append(out, v...)
	}
	return out, nil
}

func (r *fakeHospitalRepo) Stats(_ context.Context, _ int64) (*model.HospitalStats, error) {
	return &model.HospitalStats{}, nil
}

func newTestService() (*Service, *fakeHospitalRepo) {
	repo := newFakeHospitalRepo()
	return NewService(repo, authz.NewPolicy(repo), nil), repo
}

func adminClaims() *auth.Claims {
	return &auth.Claims{UserID: 99, Role: model.RoleAdmin}
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func createHospital(t *testing.T, svc *Service) *model.HospitalDetail {
	t.Helper()
	detail, err := svc.Create(context.Background(), adminClaims(), &model.CreateHospitalRequest{
		Name:          "Happy Paws",
		Address:       "12 Main St",
		Phone:         strPtr("02-1234"),
		Specialties:   []string{"dermatology", "surgery"},
		Veterinarians: []string{"Dr. Song"},
		ImageURLs:     []string{"a", "b"},
		FAQ:           [][]string{{"Q1", "A1"}, {"Q2", "A2"}},
		OwnerID:       int64Ptr(10),
	})
	require.NoError(t, err)
	return detail
}

func TestCreateRoundTrip(t *testing.T) {
	svc, _ := newTestService()

	detail := createHospital(t, svc)
	assert.Equal(t, []string{"a", "b"}, detail.ImageURLs)
	assert.Equal(t, [][]string{{"Q1", "A1"}, {"Q2", "A2"}}, detail.FAQ)
	assert.Len(t, detail.Specialties, 2)
	assert.Len(t, detail.Veterinarians, 1)
	assert.Equal(t, int64(10), *detail.OwnerID)
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), &auth.Claims{UserID: 1, Role: model.RoleUser}, &model.CreateHospitalRequest{
		Name: "Nope", Address: "Nowhere", Specialties: []string{"x"}, Veterinarians: []string{"y"},
	})
	assert.True(t, apperror.Is(err, http.StatusForbidden))
	assert.Empty(t, repo.hospitals)
}

func TestSearchMineFilter(t *testing.T) {
	svc, _ := newTestService()
	createHospital(t, svc)

	// anonymous mine
	_, err := svc.Search(context.Background(), nil, &model.HospitalSearchFilter{Mine: true})
	assert.True(t, apperror.Is(err, http.StatusUnauthorized))

	// plain user mine
	_, err = svc.Search(context.Background(), &auth.Claims{UserID: 10, Role: model.RoleUser}, &model.HospitalSearchFilter{Mine: true})
	assert.True(t, apperror.Is(err, http.StatusForbidden))

	// owning hospitalAdmin
	result, err := svc.Search(context.Background(), &auth.Claims{UserID: 10, Role: model.RoleHospitalAdmin}, &model.HospitalSearchFilter{Mine: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	// other hospitalAdmin sees nothing of theirs
	result, err = svc.Search(context.Background(), &auth.Claims{UserID: 20, Role: model.RoleHospitalAdmin}, &model.HospitalSearchFilter{Mine: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
}

func TestUpdateMergesPatch(t *testing.T) {
	svc, _ := newTestService()
	detail := createHospital(t, svc)

	updated, err := svc.Update(context.Background(), adminClaims(), detail.ID, &model.UpdateHospitalRequest{
		Name:      strPtr("Happier Paws"),
		OpenHours: strPtr("09:00-18:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Happier Paws", updated.Name)
	assert.Equal(t, "09:00-18:00", *updated.OpenHours)
	// untouched fields survive
	assert.Equal(t, "12 Main St", updated.Address)
	assert.Equal(t, "02-1234", *updated.Phone)
	assert.Equal(t, []string{"a", "b"}, updated.ImageURLs)
}

func TestUpdateOwnerScope(t *testing.T) {
	svc, _ := newTestService()
	detail := createHospital(t, svc)

	// owner may update their own hospital
	_, err := svc.Update(context.Background(), &auth.Claims{UserID: 10, Role: model.RoleHospitalAdmin}, detail.ID,
		&model.UpdateHospitalRequest{Name: strPtr("Mine")})
	require.NoError(t, err)

	// a different hospitalAdmin may not
	_, err = svc.Update(context.Background(), &auth.Claims{UserID: 20, Role: model.RoleHospitalAdmin}, detail.ID,
		&model.UpdateHospitalRequest{Name: strPtr("Not mine")})
	assert.True(t, apperror.Is(err, http.StatusForbidden))
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	detail := createHospital(t, svc)

	require.NoError(t, svc.Delete(context.Background(), adminClaims(), detail.ID))
	assert.Empty(t, repo.hospitals)

	err := svc.Delete(context.Background(), adminClaims(), detail.ID)
	assert.True(t, apperror.Is(err, http.StatusNotFound))
}

func TestGetUnknown(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), 404)
	assert.True(t, apperror.Is(err, http.StatusNotFound))
}

func TestLookupListsCached(t *testing.T) {
	svc, repo := newTestService()
	createHospital(t, svc)

	first, err := svc.ListSpecialties(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// mutate the repo behind the cache; the cached list is served until flushed
	repo.specialties[1] = append(repo.specialties[1], model.Specialty{ID: 3, Name: "dentistry"})
	second, err := svc.ListSpecialties(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 2)
}
