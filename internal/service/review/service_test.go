package review

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

type fakeReviewRepo struct {
	reviews map[int64]*model.Review
	nextID  int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[int64]*model.Review), nextID: 1}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	review.ID = r.nextID
	r.nextID++
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Get(_ context.Context, id int64) (*model.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return review, nil
}

func (r *fakeReviewRepo) ListByUser(_ context.Context, userID int64) ([]*model.Review, error) {
	var out []*model.Review
	for _, review := range r.reviews {
		if review.UserID == userID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListByHospital(_ context.Context, hospitalID int64, _, _ int, _ string) ([]*model.Review, int64, *float64, error) {
	var out []*model.Review
	var sum float64
	for _, review := range r.reviews {
		if review.HospitalID == hospitalID {
			out = append(out, review)
			sum += float64(review.Rating)
		}
	}
	if len(out) == 0 {
		return out, 0, nil, nil
	}
	avg := sum / float64(len(out))
	return out, int64(len(out)), &avg, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	if _, ok := r.reviews[review.ID]; !ok {
		return repository.ErrNotFound
	}
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

type stubHospitalRepo struct {
	ids map[int64]bool
}

func (r *stubHospitalRepo) Create(context.Context, *model.Hospital, []string, []string) error {
	return nil
}

func (r *stubHospitalRepo) Get(_ context.Context, id int64) (*model.Hospital, error) {
	if !r.ids[id] {
		return nil, repository.ErrNotFound
	}
	return &model.Hospital{ID: id}, nil
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

func newTestService() (*Service, *fakeReviewRepo) {
	reviews := newFakeReviewRepo()
	hospitals := &stubHospitalRepo{ids: map[int64]bool{1: true}}
	svc := NewService(reviews, hospitals, authz.NewPolicy(hospitals), nil)
	return svc, reviews
}

func userClaims(id int64) *auth.Claims {
	return &auth.Claims{UserID: id, Role: model.RoleUser}
}

func TestCreateReview(t *testing.T) {
	svc, repo := newTestService()

	review, err := svc.Create(context.Background(), userClaims(5), 1, &model.CreateReviewRequest{
		HospitalID: 1, Rating: 4, Content: "kind staff",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), review.UserID)
	assert.Len(t, repo.reviews, 1)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), userClaims(5), 1, &model.CreateReviewRequest{
		HospitalID: 1, Rating: 6, Content: "too good",
	})
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
	assert.Empty(t, repo.reviews)

	_, err = svc.Create(context.Background(), userClaims(5), 1, &model.CreateReviewRequest{
		HospitalID: 1, Rating: 0, Content: "too bad",
	})
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
	assert.Empty(t, repo.reviews)
}

func TestCreateReviewUnknownHospital(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), userClaims(5), 404, &model.CreateReviewRequest{
		HospitalID: 404, Rating: 3, Content: "where is it",
	})
	assert.True(t, apperror.Is(err, http.StatusNotFound))
}

func TestCreateReviewAnonymous(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), nil, 1, &model.CreateReviewRequest{
		HospitalID: 1, Rating: 3, Content: "hello",
	})
	assert.True(t, apperror.Is(err, http.StatusUnauthorized))
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	review, err := svc.Create(ctx, userClaims(5), 1, &model.CreateReviewRequest{
		HospitalID: 1, Rating: 4, Content: "fine",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, userClaims(6), review.ID, &model.UpdateReviewRequest{Rating: 1, Content: "sabotage"})
	assert.True(t, apperror.Is(err, http.StatusForbidden))

	updated, err := svc.Update(ctx, userClaims(5), review.ID, &model.UpdateReviewRequest{Rating: 5, Content: "even better"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
}

func TestDeleteReview(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	review, err := svc.Create(ctx, userClaims(5), 1, &model.CreateReviewRequest{
		HospitalID: 1, Rating: 4, Content: "fine",
	})
	require.NoError(t, err)

	assert.True(t, apperror.Is(svc.Delete(ctx, userClaims(6), review.ID), http.StatusForbidden))
	require.NoError(t, svc.Delete(ctx, userClaims(5), review.ID))
	assert.Empty(t, repo.reviews)

	assert.True(t, apperror.Is(svc.Delete(ctx, userClaims(5), review.ID), http.StatusNotFound))
}

func TestListForHospitalAverages(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, rating := range []int{2, 4} {
		_, err := svc.Create(ctx, userClaims(5), 1, &model.CreateReviewRequest{
			HospitalID: 1, Rating: rating, Content: "x",
		})
		require.NoError(t, err)
	}

	page, err := svc.ListForHospital(ctx, 1, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.NotNil(t, page.AvgRating)
	assert.InDelta(t, 3.0, *page.AvgRating, 0.001)
}
