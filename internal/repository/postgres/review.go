package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
)

type reviewRepository struct {
	BaseRepository
}

func NewReviewRepository(base BaseRepository) repository.ReviewRepository {
	return &reviewRepository{base}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (user_id, hospital_id, rating, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	review.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		review.UserID,
		review.HospitalID,
		review.Rating,
		review.Content,
		review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) Get(ctx context.Context, id int64) (*model.Review, error) {
	query := `SELECT * FROM reviews WHERE id = $1`

	var review model.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, translateError(err)
	}

	return &review, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Review, error) {
	query := `SELECT * FROM reviews WHERE user_id = $1 ORDER BY created_at DESC`

	reviews := []*model.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	for _, review := range reviews {
		var hospital model.Hospital
		err := r.db.GetContext(ctx, &hospital, `SELECT * FROM hospitals WHERE id = $1`, review.HospitalID)
		if err != nil {
			return nil, fmt.Errorf("failed to load review hospital: %w", err)
		}
		review.Hospital = hospital.Detail()
	}

	return reviews, nil
}

type reviewUserRow struct {
	model.Review
	AuthorID   int64  `db:"author_id"`
	AuthorName string `db:"author_name"`
}

func (r *reviewRepository) ListByHospital(ctx context.Context, hospitalID int64, page, limit int, order string) ([]*model.Review, int64, *float64, error) {
	dir := "DESC"
	if order == "asc" {
		dir = "ASC"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE hospital_id = $1`, hospitalID); err != nil {
		return nil, 0, nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var avg *float64
	err := r.db.QueryRowContext(ctx, `SELECT AVG(rating) FROM reviews WHERE hospital_id = $1`, hospitalID).Scan(&avg)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to average reviews: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT r.*, u.id AS author_id, u.name AS author_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.hospital_id = $1
		ORDER BY r.created_at %s
		LIMIT $2 OFFSET $3
	`, dir)

	var rows []reviewUserRow
	if err := r.db.SelectContext(ctx, &rows, query, hospitalID, limit, (page-1)*limit); err != nil {
		return nil, 0, nil, fmt.Errorf("failed to list hospital reviews: %w", err)
	}

	reviews := make([]*model.Review, 0, len(rows))
	for i := range rows {
		review := rows[i].Review
		review.User = &model.UserRef{ID: rows[i].AuthorID, Name: rows[i].AuthorName}
		reviews = append(reviews, &review)
	}
	return reviews, total, avg, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET rating = $1, content = $2 WHERE id = $3`,
		review.Rating, review.Content, review.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
