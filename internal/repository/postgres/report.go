package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
)

type reportRepository struct {
	BaseRepository
}

func NewReportRepository(base BaseRepository) repository.ReportRepository {
	return &reportRepository{base}
}

func (r *reportRepository) Create(ctx context.Context, report *model.CommunityReport) error {
	query := `
		INSERT INTO community_reports (post_id, comment_id, user_id, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	report.Status = model.ReportStatusPending
	report.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		report.PostID, report.CommentID, report.UserID, report.Reason,
		report.Status, report.CreatedAt,
	).Scan(&report.ID)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

const reportSelect = `
	SELECT r.id, r.post_id, r.comment_id, r.user_id, r.reason, r.status, r.created_at,
	       u.id AS reporter_id, u.name AS reporter_name,
	       p.title AS post_title, c.content AS comment_content
	FROM community_reports r
	JOIN users u ON u.id = r.user_id
	LEFT JOIN community_posts p ON p.id = r.post_id
	LEFT JOIN community_comments c ON c.id = r.comment_id
`

type reportRow struct {
	model.CommunityReport
	ReporterID     int64          `db:"reporter_id"`
	ReporterName   string         `db:"reporter_name"`
	PostTitle      sql.NullString `db:"post_title"`
	CommentContent sql.NullString `db:"comment_content"`
}

func (row *reportRow) toReport() *model.CommunityReport {
	report := row.CommunityReport
	report.User = &model.UserRef{ID: row.ReporterID, Name: row.ReporterName}
	if report.PostID.Valid {
		report.Post = &model.PostRef{ID: report.PostID.Int64, Title: row.PostTitle.String}
	}
	if report.CommentID.Valid {
		report.Comment = &model.CommentRef{ID: report.CommentID.Int64, Content: row.CommentContent.String}
	}
	return &report
}

func (r *reportRepository) Get(ctx context.Context, id int64) (*model.CommunityReport, error) {
	query := reportSelect + ` WHERE r.id = $1`

	var row reportRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translateError(err)
	}

	return row.toReport(), nil
}

func (r *reportRepository) List(ctx context.Context, filter *model.ReportFilter) ([]*model.CommunityReport, error) {
	query := reportSelect + ` WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	switch filter.Type {
	case model.ReportTargetPost:
		query += " AND r.post_id IS NOT NULL"
	case model.ReportTargetComment:
		query += " AND r.comment_id IS NOT NULL"
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		query += fmt.Sprintf(" AND r.reason ILIKE $%d", len(args))
	}
	query += " ORDER BY r.created_at DESC"

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*model.CommunityReport, 0, len(rows))
	for i := range rows {
		reports = append(reports, rows[i].toReport())
	}
	return reports, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.CommunityReport, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE community_reports SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, repository.ErrNotFound
	}

	return r.Get(ctx, id)
}
