// file: handler/user_handler_test.go

package handler

import (
	"go-auth-api/model"
	"go-auth-api/repository"
	"go-auth-api/service"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type stubUserRepo struct{}

func (stubUserRepo) CreateUser(*model.User) error { return nil }
func (stubUserRepo) GetUserByEmail(string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}
func (stubUserRepo) GetUserByID(int) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}
func (stubUserRepo) ListUsers(repository.ListUsersParams) ([]*model.User, int, error) {
	return nil, 0, nil
}
func (stubUserRepo) UpdateUser(*model.User) error     { return nil }
func (stubUserRepo) UpdateUserRole(int, string) error { return nil }
func (stubUserRepo) DeleteUser(int) error             { return nil }

func newStubUserHandler(t *testing.T) *UserHandler {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewUserHandler(service.NewUserService(stubUserRepo{}, service.NewPasswordService(4), cache))
}

// The actor field in the audit log is best-effort: the handler must not
// assume an identity was attached to the context.
func TestUpdateUserRole_NoActorInContext(t *testing.T) {
	h := newStubUserHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/users/1/role", strings.NewReader(`{"role":"admin"}`))
	req.SetPathValue("id", "1")

	ErrorHandlingMiddleware(h.UpdateUserRole).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "User role updated successfully")
}
