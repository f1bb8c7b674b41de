package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
)

type reservationRepository struct {
	BaseRepository
}

func NewReservationRepository(base BaseRepository) repository.ReservationRepository {
	return &reservationRepository{base}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	query := `
		INSERT INTO reservations (user_id, hospital_id, reserved_at, status, memo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	reservation.CreatedAt = time.Now()
	reservation.UpdatedAt = reservation.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		reservation.UserID,
		reservation.HospitalID,
		reservation.ReservedAt,
		reservation.Status,
		reservation.Memo,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	).Scan(&reservation.ID)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return nil
}

func (r *reservationRepository) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	query := `SELECT * FROM reservations WHERE id = $1`

	var reservation model.Reservation
	if err := r.db.GetContext(ctx, &reservation, query, id); err != nil {
		return nil, translateError(err)
	}

	return &reservation, nil
}

// ListByUser returns the user's reservations newest first, with the booked
// hospital row attached.
func (r *reservationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	query := `SELECT * FROM reservations WHERE user_id = $1 ORDER BY reserved_at DESC`

	reservations := []*model.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	for _, reservation := range reservations {
		var hospital model.Hospital
		err := r.db.GetContext(ctx, &hospital, `SELECT * FROM hospitals WHERE id = $1`, reservation.HospitalID)
		if err != nil {
			return nil, fmt.Errorf("failed to load reservation hospital: %w", err)
		}
		reservation.Hospital = hospital.Detail()
	}

	return reservations, nil
}

type reservationUserRow struct {
	model.Reservation
	ReserverID   int64  `db:"reserver_id"`
	ReserverName string `db:"reserver_name"`
}

func (r *reservationRepository) ListByHospital(ctx context.Context, hospitalID int64, status string) ([]*model.Reservation, error) {
	query := `
		SELECT r.*, u.id AS reserver_id, u.name AS reserver_name
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		WHERE r.hospital_id = $1
	`
	args := []interface{}{hospitalID}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	query += " ORDER BY r.reserved_at DESC"

	var rows []reservationUserRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list hospital reservations: %w", err)
	}

	reservations := make([]*model.Reservation, 0, len(rows))
	for i := range rows {
		reservation := rows[i].Reservation
		reservation.User = &model.UserRef{ID: rows[i].ReserverID, Name: rows[i].ReserverName}
		reservations = append(reservations, &reservation)
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
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
