package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
)

type hospitalRepository struct {
	BaseRepository
}

func NewHospitalRepository(base BaseRepository) repository.HospitalRepository {
	return &hospitalRepository{base}
}

// Create inserts the hospital and its specialty/veterinarian links in one
// transaction. Lookup names are created on first use.
func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital, specialties, veterinarians []string) error {
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = hospital.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO hospitals (name, address, phone, open_hours, image_urls, faq, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`,
			hospital.Name,
			hospital.Address,
			hospital.Phone,
			hospital.OpenHours,
			hospital.ImageURLs,
			hospital.FAQ,
			hospital.OwnerID,
			hospital.CreatedAt,
			hospital.UpdatedAt,
		).Scan(&hospital.ID)
		if err != nil {
			return fmt.Errorf("failed to create hospital: %w", err)
		}

		for _, name := range specialties {
			id, err := upsertLookup(ctx, tx, "specialties", name)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO hospital_specialties (hospital_id, specialty_id)
				VALUES ($1, $2) ON CONFLICT DO NOTHING
			`, hospital.ID, id); err != nil {
				return fmt.Errorf("failed to link specialty: %w", err)
			}
		}

		for _, name := range veterinarians {
			id, err := upsertLookup(ctx, tx, "veterinarians", name)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO hospital_veterinarians (hospital_id, veterinarian_id)
				VALUES ($1, $2) ON CONFLICT DO NOTHING
			`, hospital.ID, id); err != nil {
				return fmt.Errorf("failed to link veterinarian: %w", err)
			}
		}

		return nil
	})
}

// upsertLookup returns the id of the named lookup row, creating it when
// missing. The no-op update makes RETURNING work on conflict.
func upsertLookup(ctx context.Context, tx *sqlx.Tx, table, name string) (int64, error) {
	var id int64
	query := fmt.Sprintf(`
		INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, table)
	if err := tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert %s: %w", table, err)
	}
	return id, nil
}

func (r *hospitalRepository) Get(ctx context.Context, id int64) (*model.Hospital, error) {
	query := `SELECT * FROM hospitals WHERE id = $1`

	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, id); err != nil {
		return nil, translateError(err)
	}

	return &hospital, nil
}

func (r *hospitalRepository) Search(ctx context.Context, filter *model.HospitalSearchFilter) ([]*model.Hospital, int64, error) {
	where := " WHERE 1=1"
	var args []interface{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(" AND (h.name ILIKE $%d OR h.address ILIKE $%d)", len(args), len(args))
	}
	if filter.Address != "" {
		args = append(args, "%"+filter.Address+"%")
		where += fmt.Sprintf(" AND h.address ILIKE $%d", len(args))
	}
	if filter.Specialty != "" {
		args = append(args, "%"+filter.Specialty+"%")
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM hospital_specialties hs
			JOIN specialties s ON s.id = hs.specialty_id
			WHERE hs.hospital_id = h.id AND s.name ILIKE $%d
		)`, len(args))
	}
	if filter.Mine {
		args = append(args, filter.OwnerID)
		where += fmt.Sprintf(" AND h.owner_id = $%d", len(args))
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM hospitals h"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count hospitals: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(
		"SELECT h.* FROM hospitals h%s ORDER BY h.id DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args),
	)

	hospitals := []*model.Hospital{}
	if err := r.db.SelectContext(ctx, &hospitals, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search hospitals: %w", err)
	}

	return hospitals, total, nil
}

// Update writes all mutable columns; partial-patch merging happens in the
// service against the loaded row.
func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	query := `
		UPDATE hospitals SET
			name = $1,
			address = $2,
			phone = $3,
			open_hours = $4,
			image_urls = $5,
			faq = $6,
			owner_id = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		hospital.Name,
		hospital.Address,
		hospital.Phone,
		hospital.OpenHours,
		hospital.ImageURLs,
		hospital.FAQ,
		hospital.OwnerID,
		time.Now(),
		hospital.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
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

func (r *hospitalRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hospitals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hospital: %w", err)
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

type hospitalSpecialtyRow struct {
	HospitalID int64  `db:"hospital_id"`
	ID         int64  `db:"id"`
	Name       string `db:"name"`
}

func (r *hospitalRepository) SpecialtiesByHospital(ctx context.Context, hospitalIDs []int64) (map[int64][]model.Specialty, error) {
	result := make(map[int64][]model.Specialty)
	if len(hospitalIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT hs.hospital_id, s.id, s.name
		FROM hospital_specialties hs
		JOIN specialties s ON s.id = hs.specialty_id
		WHERE hs.hospital_id = ANY($1)
		ORDER BY s.name ASC
	`

	var rows []hospitalSpecialtyRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(hospitalIDs)); err != nil {
		return nil, fmt.Errorf("failed to load hospital specialties: %w", err)
	}

	for _, row := range rows {
		result[row.HospitalID] = append(result[row.HospitalID], model.Specialty{ID: row.ID, Name: row.Name})
	}
	return result, nil
}

func (r *hospitalRepository) VeterinariansByHospital(ctx context.Context, hospitalIDs []int64) (map[int64][]model.Veterinarian, error) {
	result := make(map[int64][]model.Veterinarian)
	if len(hospitalIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT hv.hospital_id, v.id, v.name
		FROM hospital_veterinarians hv
		JOIN veterinarians v ON v.id = hv.veterinarian_id
		WHERE hv.hospital_id = ANY($1)
		ORDER BY v.name ASC
	`

	var rows []hospitalSpecialtyRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(hospitalIDs)); err != nil {
		return nil, fmt.Errorf("failed to load hospital veterinarians: %w", err)
	}

	for _, row := range rows {
		result[row.HospitalID] = append(result[row.HospitalID], model.Veterinarian{ID: row.ID, Name: row.Name})
	}
	return result, nil
}

func (r *hospitalRepository) ListSpecialties(ctx context.Context) ([]model.Specialty, error) {
	specialties := []model.Specialty{}
	if err := r.db.SelectContext(ctx, &specialties, `SELECT * FROM specialties ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}

func (r *hospitalRepository) ListVeterinarians(ctx context.Context) ([]model.Veterinarian, error) {
	veterinarians := []model.Veterinarian{}
	if err := r.db.SelectContext(ctx, &veterinarians, `SELECT * FROM veterinarians ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("failed to list veterinarians: %w", err)
	}
	return veterinarians, nil
}

func (r *hospitalRepository) Stats(ctx context.Context, hospitalID int64) (*model.HospitalStats, error) {
	stats := &model.HospitalStats{
		MonthlyReservations: []model.MonthlyCount{},
		MonthlyReviews:      []model.MonthlyReviewStat{},
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM reviews WHERE hospital_id = $1),
			(SELECT AVG(rating) FROM reviews WHERE hospital_id = $1),
			(SELECT COUNT(*) FROM reservations WHERE hospital_id = $1)
	`, hospitalID).Scan(&stats.ReviewCount, &stats.AvgRating, &stats.ReservationCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital stats: %w", err)
	}

	if err := r.db.SelectContext(ctx, &stats.MonthlyReservations, `
		SELECT to_char(reserved_at, 'YYYY-MM') AS month, COUNT(*) AS count
		FROM reservations
		WHERE hospital_id = $1
		GROUP BY month
		ORDER BY month
	`, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to load monthly reservations: %w", err)
	}

	if err := r.db.SelectContext(ctx, &stats.MonthlyReviews, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*) AS count, AVG(rating) AS avg_rating
		FROM reviews
		WHERE hospital_id = $1
		GROUP BY month
		ORDER BY month
	`, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to load monthly reviews: %w", err)
	}

	return stats, nil
}
