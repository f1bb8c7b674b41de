package admin

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

type fakeUserRepo struct {
	users map[int64]*model.User
	audit []*model.AuditLog
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*model.User, error) {
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, userID int64, newRole string, log *model.AuditLog) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = newRole
	r.audit = append(r.audit, log)
	return nil
}

type fakeAuditRepo struct {
	logs       []*model.AuditLog
	listAll    int
	listScoped int
}

func (r *fakeAuditRepo) Create(_ context.Context, log *model.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeAuditRepo) ListAll(_ context.Context, _ int) ([]*model.AuditLog, error) {
	r.listAll++
	return r.logs, nil
}

func (r *fakeAuditRepo) ListForUser(_ context.Context, userID int64, _ int) ([]*model.AuditLog, error) {
	r.listScoped++
	var out []*model.AuditLog
	for _, l := range r.logs {
		if l.UserID == userID || (l.TargetID == userID && l.TargetType == model.AuditTargetUser) {
			out = append(out, l)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeAuditRepo) {
	users := &fakeUserRepo{users: map[int64]*model.User{
		1: {ID: 1, Email: "admin@example.com", Role: model.RoleAdmin},
		2: {ID: 2, Email: "user@example.com", Role: model.RoleUser},
		3: {ID: 3, Email: "owner@example.com", Role: model.RoleHospitalAdmin},
	}}
	audits := &fakeAuditRepo{}
	return NewService(users, audits, authz.NewPolicy(nil)), users, audits
}

func adminClaims() *auth.Claims {
	return &auth.Claims{UserID: 1, Role: model.RoleAdmin}
}

func TestChangeRoleWritesAudit(t *testing.T) {
	svc, users, _ := newTestService()

	updated, err := svc.ChangeRole(context.Background(), adminClaims(), 2, model.RoleHospitalAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleHospitalAdmin, updated.Role)

	require.Len(t, users.audit, 1)
	entry := users.audit[0]
	assert.Equal(t, model.AuditActionRoleGrant, entry.Action)
	assert.Equal(t, int64(1), entry.UserID)
	assert.Equal(t, int64(2), entry.TargetID)
	assert.Equal(t, model.AuditTargetUser, entry.TargetType)
	assert.Equal(t, "role: user → hospitalAdmin", entry.Detail)
}

func TestChangeRoleRevoke(t *testing.T) {
	svc, users, _ := newTestService()

	_, err := svc.ChangeRole(context.Background(), adminClaims(), 3, model.RoleUser)
	require.NoError(t, err)

	require.Len(t, users.audit, 1)
	assert.Equal(t, model.AuditActionRoleRevoke, users.audit[0].Action)
	assert.Equal(t, "role: hospitalAdmin → user", users.audit[0].Detail)
}

func TestChangeRoleNoop(t *testing.T) {
	svc, users, _ := newTestService()

	_, err := svc.ChangeRole(context.Background(), adminClaims(), 2, model.RoleUser)
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
	assert.Empty(t, users.audit)
}

func TestChangeRoleUnknownRole(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ChangeRole(context.Background(), adminClaims(), 2, "superuser")
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
}

func TestChangeRoleUnknownUser(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ChangeRole(context.Background(), adminClaims(), 404, model.RoleAdmin)
	assert.True(t, apperror.Is(err, http.StatusNotFound))
}

func TestChangeRoleRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ChangeRole(context.Background(), &auth.Claims{UserID: 2, Role: model.RoleUser}, 3, model.RoleUser)
	assert.True(t, apperror.Is(err, http.StatusForbidden))

	_, err = svc.ChangeRole(context.Background(), nil, 3, model.RoleUser)
	assert.True(t, apperror.Is(err, http.StatusUnauthorized))
}

func TestListUsersRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListUsers(context.Background(), &auth.Claims{UserID: 2, Role: model.RoleUser})
	assert.True(t, apperror.Is(err, http.StatusForbidden))

	users, err := svc.ListUsers(context.Background(), adminClaims())
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestListAuditLogsScoping(t *testing.T) {
	svc, _, audits := newTestService()
	ctx := context.Background()

	audits.logs = []*model.AuditLog{
		{ID: 1, UserID: 1, Action: model.AuditActionRoleGrant, TargetID: 2, TargetType: model.AuditTargetUser},
		{ID: 2, UserID: 1, Action: model.AuditActionRoleRevoke, TargetID: 3, TargetType: model.AuditTargetUser},
	}

	all, err := svc.ListAuditLogs(ctx, adminClaims())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, audits.listAll)

	scoped, err := svc.ListAuditLogs(ctx, &auth.Claims{UserID: 2, Role: model.RoleHospitalAdmin})
	require.NoError(t, err)
	assert.Len(t, scoped, 1)
	assert.Equal(t, 1, audits.listScoped)

	_, err = svc.ListAuditLogs(ctx, &auth.Claims{UserID: 2, Role: model.RoleUser})
	assert.True(t, apperror.Is(err, http.StatusForbidden))
	assert.Equal(t, 1, audits.listScoped)

	_, err = svc.ListAuditLogs(ctx, nil)
	assert.True(t, apperror.Is(err, http.StatusUnauthorized))
}
