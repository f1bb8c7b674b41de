package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
)

type communityRepository struct {
	BaseRepository
}

func NewCommunityRepository(base BaseRepository) repository.CommunityRepository {
	return &communityRepository{base}
}

func (r *communityRepository) CreatePost(ctx context.Context, post *model.CommunityPost) error {
	query := `
		INSERT INTO community_posts (user_id, title, content, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		post.UserID, post.Title, post.Content, post.Category, post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *communityRepository) GetPost(ctx context.Context, id int64) (*model.CommunityPost, error) {
	query := `
		SELECT p.*, u.id AS author_id, u.name AS author_name
		FROM community_posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	var row postUserRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translateError(err)
	}

	post := row.CommunityPost
	post.User = &model.UserRef{ID: row.AuthorID, Name: row.AuthorName}
	return &post, nil
}

type postUserRow struct {
	model.CommunityPost
	AuthorID   int64  `db:"author_id"`
	AuthorName string `db:"author_name"`
}

func (r *communityRepository) ListPosts(ctx context.Context, filter *model.PostFilter) ([]*model.CommunityPost, int64, error) {
	where := " WHERE 1=1"
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND p.category = $%d", len(args))
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM community_posts p"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT p.*, u.id AS author_id, u.name AS author_name
		FROM community_posts p
		JOIN users u ON u.id = p.user_id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	var rows []postUserRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*model.CommunityPost, 0, len(rows))
	for i := range rows {
		post := rows[i].CommunityPost
		post.User = &model.UserRef{ID: rows[i].AuthorID, Name: rows[i].AuthorName}
		posts = append(posts, &post)
	}
	return posts, total, nil
}

func (r *communityRepository) UpdatePost(ctx context.Context, post *model.CommunityPost) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE community_posts SET title = $1, content = $2, category = $3, updated_at = $4 WHERE id = $5`,
		post.Title, post.Content, post.Category, time.Now(), post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
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

func (r *communityRepository) DeletePost(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM community_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
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

func (r *communityRepository) CreateComment(ctx context.Context, comment *model.CommunityComment) error {
	query := `
		INSERT INTO community_comments (post_id, user_id, content, parent_comment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		comment.PostID, comment.UserID, comment.Content, comment.ParentCommentID,
		comment.CreatedAt, comment.UpdatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *communityRepository) GetComment(ctx context.Context, id int64) (*model.CommunityComment, error) {
	query := `SELECT * FROM community_comments WHERE id = $1`

	var comment model.CommunityComment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		return nil, translateError(err)
	}

	return &comment, nil
}

type commentUserRow struct {
	model.CommunityComment
	AuthorID   int64  `db:"author_id"`
	AuthorName string `db:"author_name"`
}

// ListComments returns top-level comments (oldest first) with replies
// attached, or the replies of one parent when parentID is set.
func (r *communityRepository) ListComments(ctx context.Context, postID int64, parentID *int64) ([]*model.CommunityComment, error) {
	query := `
		SELECT c.*, u.id AS author_id, u.name AS author_name
		FROM community_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
	`
	args := []interface{}{postID}

	if parentID != nil {
		args = append(args, *parentID)
		query += fmt.Sprintf(" AND c.parent_comment_id = $%d", len(args))
	} else {
		query += " AND c.parent_comment_id IS NULL"
	}
	query += " ORDER BY c.created_at ASC"

	var rows []commentUserRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]*model.CommunityComment, 0, len(rows))
	for i := range rows {
		comment := rows[i].CommunityComment
		comment.User = &model.UserRef{ID: rows[i].AuthorID, Name: rows[i].AuthorName}
		comment.Replies = []*model.CommunityComment{}
		comments = append(comments, &comment)
	}

	if parentID == nil && len(comments) > 0 {
		if err := r.attachReplies(ctx, postID, comments); err != nil {
			return nil, err
		}
	}

	return comments, nil
}

func (r *communityRepository) attachReplies(ctx context.Context, postID int64, parents []*model.CommunityComment) error {
	query := `
		SELECT c.*, u.id AS author_id, u.name AS author_name
		FROM community_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1 AND c.parent_comment_id IS NOT NULL
		ORDER BY c.created_at ASC
	`

	var rows []commentUserRow
	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return fmt.Errorf("failed to load replies: %w", err)
	}

	byParent := make(map[int64][]*model.CommunityComment)
	for i := range rows {
		reply := rows[i].CommunityComment
		reply.User = &model.UserRef{ID: rows[i].AuthorID, Name: rows[i].AuthorName}
		byParent[reply.ParentCommentID.Int64] = append(byParent[reply.ParentCommentID.Int64], &reply)
	}

	for _, parent := range parents {
		if replies, ok := byParent[parent.ID]; ok {
			parent.Replies = replies
		}
	}
	return nil
}

func (r *communityRepository) UpdateComment(ctx context.Context, comment *model.CommunityComment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE community_comments SET content = $1, updated_at = $2 WHERE id = $3`,
		comment.Content, time.Now(), comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
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

func (r *communityRepository) DeleteComment(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM community_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
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

// CreateLike inserts the (post, user) pair. The unique constraint turns a
// duplicate or racing insert into repository.ErrDuplicate.
func (r *communityRepository) CreateLike(ctx context.Context, postID, userID int64) (*model.CommunityLike, error) {
	like := &model.CommunityLike{PostID: postID, UserID: userID, CreatedAt: time.Now()}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO community_likes (post_id, user_id, created_at) VALUES ($1, $2, $3)`,
		like.PostID, like.UserID, like.CreatedAt,
	)
	if err != nil {
		if err = translateError(err); err == repository.ErrDuplicate {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create like: %w", err)
	}

	return like, nil
}

// DeleteLike removes the pair if present; deleting a missing like is not an
// error.
func (r *communityRepository) DeleteLike(ctx context.Context, postID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM community_likes WHERE post_id = $1 AND user_id = $2`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}
