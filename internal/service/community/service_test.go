package community

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/internal/service/authz"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
)

type likeKey struct {
	postID int64
	userID int64
}

type fakeCommunityRepo struct {
	posts    map[int64]*model.CommunityPost
	comments map[int64]*model.CommunityComment
	likes    map[likeKey]*model.CommunityLike
	nextID   int64
}

func newFakeCommunityRepo() *fakeCommunityRepo {
	return &fakeCommunityRepo{
		posts:    make(map[int64]*model.CommunityPost),
		comments: make(map[int64]*model.CommunityComment),
		likes:    make(map[likeKey]*model.CommunityLike),
		nextID:   1,
	}
}

func (r *fakeCommunityRepo) CreatePost(_ context.Context, post *model.CommunityPost) error {
	post.ID = r.nextID
	r.nextID++
	r.posts[post.ID] = post
	return nil
}

func (r *fakeCommunityRepo) GetPost(_ context.Context, id int64) (*model.CommunityPost, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return post, nil
}

func (r *fakeCommunityRepo) ListPosts(_ context.Context, filter *model.PostFilter) ([]*model.CommunityPost, int64, error) {
	var out []*model.CommunityPost
	for _, post := range r.posts {
		if filter.Category == "" || post.CategoryValue() == filter.Category {
			out = append(out, post)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCommunityRepo) UpdatePost(_ context.Context, post *model.CommunityPost) error {
	if _, ok := r.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	r.posts[post.ID] = post
	return nil
}

func (r *fakeCommunityRepo) DeletePost(_ context.Context, id int64) error {
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakeCommunityRepo) CreateComment(_ context.Context, comment *model.CommunityComment) error {
	comment.ID = r.nextID
	r.nextID++
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommunityRepo) GetComment(_ context.Context, id int64) (*model.CommunityComment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return comment, nil
}

func (r *fakeCommunityRepo) ListComments(_ context.Context, postID int64, parentID *int64) ([]*model.CommunityComment, error) {
	var out []*model.CommunityComment
	for _, comment := range r.comments {
		if comment.PostID != postID {
			continue
		}
		if parentID == nil && !comment.ParentCommentID.Valid {
			out = append(out, comment)
		}
		if parentID != nil && comment.ParentCommentID.Valid && comment.ParentCommentID.Int64 == *parentID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (r *fakeCommunityRepo) UpdateComment(_ context.Context, comment *model.CommunityComment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return repository.ErrNotFound
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommunityRepo) DeleteComment(_ context.Context, id int64) error {
	if _, ok := r.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommunityRepo) CreateLike(_ context.Context, postID, userID int64) (*model.CommunityLike, error) {
	key := likeKey{postID: postID, userID: userID}
	if _, ok := r.likes[key]; ok {
		return nil, repository.ErrDuplicate
	}
	like := &model.CommunityLike{PostID: postID, UserID: userID, CreatedAt: time.Now()}
	r.likes[key] = like
	return like, nil
}

func (r *fakeCommunityRepo) DeleteLike(_ context.Context, postID, userID int64) error {
	delete(r.likes, likeKey{postID: postID, userID: userID})
	return nil
}

func newTestService() (*Service, *fakeCommunityRepo) {
	repo := newFakeCommunityRepo()
	return NewService(repo, authz.NewPolicy(nil)), repo
}

func userClaims(id int64) *auth.Claims {
	return &auth.Claims{UserID: id, Role: model.RoleUser}
}

func adminClaims() *auth.Claims {
	return &auth.Claims{UserID: 999, Role: model.RoleAdmin}
}

func createPost(t *testing.T, svc *Service, userID int64) *model.CommunityPost {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), userClaims(userID), &model.CreatePostRequest{
		Title:   "lost dog",
		Content: "seen near the park",
	})
	require.NoError(t, err)
	return post
}

func TestLikeTwiceConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	post := createPost(t, svc, 1)

	_, err := svc.Like(ctx, userClaims(2), post.ID)
	require.NoError(t, err)

	_, err = svc.Like(ctx, userClaims(2), post.ID)
	assert.True(t, apperror.Is(err, http.StatusConflict))
}

func TestUnlikeAbsentIsNoop(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	post := createPost(t, svc, 1)

	assert.NoError(t, svc.Unlike(ctx, userClaims(2), post.ID))

	_, err := svc.Like(ctx, userClaims(2), post.ID)
	require.NoError(t, err)
	assert.NoError(t, svc.Unlike(ctx, userClaims(2), post.ID))
	assert.NoError(t, svc.Unlike(ctx, userClaims(2), post.ID))
}

func TestCommentNestingLimit(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	post := createPost(t, svc, 1)

	top, err := svc.CreateComment(ctx, userClaims(2), post.ID, &model.CreateCommentRequest{Content: "top"})
	require.NoError(t, err)

	reply, err := svc.CreateComment(ctx, userClaims(3), post.ID, &model.CreateCommentRequest{
		Content:         "reply",
		ParentCommentID: &top.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, top.ID, reply.ParentCommentID.Int64)

	_, err = svc.CreateComment(ctx, userClaims(4), post.ID, &model.CreateCommentRequest{
		Content:         "reply to reply",
		ParentCommentID: &reply.ID,
	})
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
}

func TestCommentParentMustMatchPost(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	postA := createPost(t, svc, 1)
	postB := createPost(t, svc, 1)

	top, err := svc.CreateComment(ctx, userClaims(2), postA.ID, &model.CreateCommentRequest{Content: "top"})
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, userClaims(3), postB.ID, &model.CreateCommentRequest{
		Content:         "crossover",
		ParentCommentID: &top.ID,
	})
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	post := createPost(t, svc, 1)

	_, err := svc.UpdatePost(ctx, userClaims(2), post.ID, &model.UpdatePostRequest{Title: "t", Content: "c"})
	assert.True(t, apperror.Is(err, http.StatusForbidden))

	updated, err := svc.UpdatePost(ctx, userClaims(1), post.ID, &model.UpdatePostRequest{
		Title: "found him", Content: "all good", Category: "news",
	})
	require.NoError(t, err)
	assert.Equal(t, "found him", updated.Title)
	assert.Equal(t, sql.NullString{String: "news", Valid: true}, updated.Category)
}

func TestDeletePostAdminOverride(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	post := createPost(t, svc, 1)

	assert.True(t, apperror.Is(svc.DeletePost(ctx, userClaims(2), post.ID), http.StatusForbidden))
	require.NoError(t, svc.DeletePost(ctx, adminClaims(), post.ID))
	assert.Empty(t, repo.posts)
}

func TestDeleteCommentAdminOverride(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	post := createPost(t, svc, 1)

	comment, err := svc.CreateComment(ctx, userClaims(2), post.ID, &model.CreateCommentRequest{Content: "spam"})
	require.NoError(t, err)

	assert.True(t, apperror.Is(svc.DeleteComment(ctx, userClaims(3), comment.ID), http.StatusForbidden))
	require.NoError(t, svc.DeleteComment(ctx, adminClaims(), comment.ID))
	assert.Empty(t, repo.comments)
}
