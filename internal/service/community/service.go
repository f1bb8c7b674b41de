package community

import (
	"context"
	"database/sql"
	"errors"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/internal/service/authz"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

const (
	defaultPostLimit = 20
	maxPostLimit     = 100
)

type Service struct {
	posts  repository.CommunityRepository
	policy *authz.Policy
}

func NewService(posts repository.CommunityRepository, policy *authz.Policy) *Service {
	return &Service{posts: posts, policy: policy}
}

// CreatePost publishes a forum post for the calling user.
func (s *Service) CreatePost(ctx context.Context, claims *auth.Claims, req *model.CreatePostRequest) (*model.CommunityPost, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	post := &model.CommunityPost{
		UserID:  claims.UserID,
		Title:   req.Title,
		Content: req.Content,
	}
	if req.Category != "" {
		post.Category = sql.NullString{String: req.Category, Valid: true}
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, apperror.Internal(err)
	}
	return s.GetPost(ctx, post.ID)
}

// ListPosts pages the forum, newest first, optionally by category.
func (s *Service) ListPosts(ctx context.Context, filter *model.PostFilter) (*model.PostPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPostLimit
	}
	if filter.Limit > maxPostLimit {
		filter.Limit = maxPostLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	posts, total, err := s.posts.ListPosts(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.PostPage{Posts: posts, Total: total}, nil
}

// GetPost returns one post with its author.
func (s *Service) GetPost(ctx context.Context, id int64) (*model.CommunityPost, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("post")
		}
		return nil, apperror.Internal(err)
	}
	return post, nil
}

// UpdatePost edits the caller's own post.
func (s *Service) UpdatePost(ctx context.Context, claims *auth.Claims, id int64, req *model.UpdatePostRequest) (*model.CommunityPost, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOwner(claims, post.UserID); err != nil {
		return nil, err
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Category = sql.NullString{String: req.Category, Valid: req.Category != ""}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, apperror.Internal(err)
	}
	return post, nil
}

// DeletePost removes a post. The author or an admin may delete.
func (s *Service) DeletePost(ctx context.Context, claims *auth.Claims, id int64) error {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return err
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if claims.Role != model.RoleAdmin {
		if err := s.policy.RequireOwner(claims, post.UserID); err != nil {
			return err
		}
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// CreateComment adds a comment, or a reply when parentCommentId is set.
// Replies nest one level only: the parent must be a top-level comment on the
// same post.
func (s *Service) CreateComment(ctx context.Context, claims *auth.Claims, postID int64, req *model.CreateCommentRequest) (*model.CommunityComment, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.CommunityComment{
		PostID:  postID,
		UserID:  claims.UserID,
		Content: req.Content,
	}
	if req.ParentCommentID != nil {
		parent, err := s.posts.GetComment(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("parent comment")
			}
			return nil, apperror.Internal(err)
		}
		if parent.PostID != postID {
			return nil, apperror.BadRequest("parent comment belongs to another post")
		}
		if parent.ParentCommentID.Valid {
			return nil, apperror.BadRequest("replies cannot be nested further")
		}
		comment.ParentCommentID = sql.NullInt64{Int64: parent.ID, Valid: true}
	}

	if err := s.posts.CreateComment(ctx, comment); err != nil {
		return nil, apperror.Internal(err)
	}
	return comment, nil
}

// ListComments returns a post's top-level comments with replies attached, or
// one parent's replies when parentID is given.
func (s *Service) ListComments(ctx context.Context, postID int64, parentID *int64) ([]*model.CommunityComment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.posts.ListComments(ctx, postID, parentID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return comments, nil
}

// UpdateComment edits the caller's own comment.
func (s *Service) UpdateComment(ctx context.Context, claims *auth.Claims, commentID int64, req *model.UpdateCommentRequest) (*model.CommunityComment, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOwner(claims, comment.UserID); err != nil {
		return nil, err
	}

	comment.Content = req.Content
	if err := s.posts.UpdateComment(ctx, comment); err != nil {
		return nil, apperror.Internal(err)
	}
	return comment, nil
}

// DeleteComment removes a comment. The author or an admin may delete.
func (s *Service) DeleteComment(ctx context.Context, claims *auth.Claims, commentID int64) error {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return err
	}

	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return err
	}
	if claims.Role != model.RoleAdmin {
		if err := s.policy.RequireOwner(claims, comment.UserID); err != nil {
			return err
		}
	}

	if err := s.posts.DeleteComment(ctx, commentID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// Like records the caller's like on a post. Liking twice is a conflict.
func (s *Service) Like(ctx context.Context, claims *auth.Claims, postID int64) (*model.CommunityLike, error) {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	like, err := s.posts.CreateLike(ctx, postID, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("post already liked")
		}
		return nil, apperror.Internal(err)
	}
	return like, nil
}

// Unlike removes the caller's like. Removing an absent like is a no-op.
func (s *Service) Unlike(ctx context.Context, claims *auth.Claims, postID int64) error {
	if err := s.policy.RequireAuthenticated(claims); err != nil {
		return err
	}

	if _, err := s.GetPost(ctx, postID); err != nil {
		return err
	}

	if err := s.posts.DeleteLike(ctx, postID, claims.UserID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) loadComment(ctx context.Context, id int64) (*model.CommunityComment, error) {
	comment, err := s.posts.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("comment")
		}
		return nil, apperror.Internal(err)
	}
	return comment, nil
}
