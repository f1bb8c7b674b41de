package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
)

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, target_id, target_type, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	log.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		log.UserID, log.Action, log.TargetID, log.TargetType, log.Detail, log.CreatedAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

const auditSelect = `
	SELECT l.id, l.user_id, l.action, l.target_id, l.target_type, l.detail, l.created_at,
	       u.id AS actor_id, u.name AS actor_name, u.email AS actor_email
	FROM audit_logs l
	JOIN users u ON u.id = l.user_id
`

type auditRow struct {
	model.AuditLog
	ActorID    int64  `db:"actor_id"`
	ActorName  string `db:"actor_name"`
	ActorEmail string `db:"actor_email"`
}

func (r *auditRepository) ListAll(ctx context.Context, limit int) ([]*model.AuditLog, error) {
	query := auditSelect + ` ORDER BY l.created_at DESC LIMIT $1`

	var rows []auditRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return attachActors(rows), nil
}

func (r *auditRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]*model.AuditLog, error) {
	query := auditSelect + `
		WHERE l.user_id = $1 OR (l.target_id = $1 AND l.target_type = $2)
		ORDER BY l.created_at DESC
		LIMIT $3
	`

	var rows []auditRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, model.AuditTargetUser, limit); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return attachActors(rows), nil
}

func attachActors(rows []auditRow) []*model.AuditLog {
	logs := make([]*model.AuditLog, 0, len(rows))
	for i := range rows {
		log := rows[i].AuditLog
		log.User = &model.AuditActorRef{
			ID:    rows[i].ActorID,
			Name:  rows[i].ActorName,
			Email: rows[i].ActorEmail,
		}
		logs = append(logs, &log)
	}
	return logs
}
