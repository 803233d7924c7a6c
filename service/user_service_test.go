// service/user_service_test.go
package service

import (
	"go-auth-api/model"
	"go-auth-api/repository"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestCache(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestUserService_GetUserByID_CacheAside(t *testing.T) {
	stored := &model.User{ID: 3, Email: "cached@test.com", Role: string(model.RoleUser)}

	mockRepo := new(mockUserRepo)
	mockRepo.On("GetUserByID", 3).Return(stored, nil).Once()

	userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))

	// First call: cache miss, repository hit.
	user, err := userService.GetUserByID(3)
	assert.NoError(t, err)
	assert.Equal(t, stored.Email, user.Email)

	// Second call: served from cache; the repository is not consulted again.
	user, err = userService.GetUserByID(3)
	assert.NoError(t, err)
	assert.Equal(t, stored.Email, user.Email)
	mockRepo.AssertNumberOfCalls(t, "GetUserByID", 1)
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	mockRepo := new(mockUserRepo)
	mockRepo.On("GetUserByID", 99).Return(nil, repository.ErrUserNotFound).Once()

	userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))

	_, err := userService.GetUserByID(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_CreateUser(t *testing.T) {
	t.Run("defaults to the user role", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("CreateUser", mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = 11
		}).Return(nil).Once()

		userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))
		user, err := userService.CreateUser(model.CreateUserRequest{Email: "x@test.com", Password: "password123"})

		assert.NoError(t, err)
		assert.Equal(t, string(model.RoleUser), user.Role)
		assert.NotEqual(t, "password123", user.Password)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("CreateUser", mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicateEmail).Once()

		userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))
		_, err := userService.CreateUser(model.CreateUserRequest{Email: "x@test.com", Password: "password123"})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestUserService_UpdateUserRole(t *testing.T) {
	t.Run("success invalidates the cached record", func(t *testing.T) {
		stored := &model.User{ID: 1, Email: "role@test.com", Role: string(model.RoleUser)}
		promoted := &model.User{ID: 1, Email: "role@test.com", Role: string(model.RoleAdmin)}

		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 1).Return(stored, nil).Once()
		mockRepo.On("UpdateUserRole", 1, "admin").Return(nil).Once()
		mockRepo.On("GetUserByID", 1).Return(promoted, nil).Once()

		userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))

		// Warm the cache, change the role, then read again: the stale
		// entry must be gone.
		_, err := userService.GetUserByID(1)
		assert.NoError(t, err)

		err = userService.UpdateUserRole(1, model.RoleAdmin)
		assert.NoError(t, err)

		user, err := userService.GetUserByID(1)
		assert.NoError(t, err)
		assert.Equal(t, string(model.RoleAdmin), user.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("UpdateUserRole", 2, "user").Return(repository.ErrUserNotFound).Once()

		userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))
		err := userService.UpdateUserRole(2, model.RoleUser)

		assert.ErrorIs(t, err, ErrUserNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid role", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))

		err := userService.UpdateUserRole(3, "invalid_role")

		assert.Error(t, err)
		assert.Equal(t, "invalid role specified", err.Error())
		mockRepo.AssertNotCalled(t, "UpdateUserRole")
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	stored := &model.User{ID: 4, Email: "old@test.com", Role: string(model.RoleUser)}
	newEmail := "new@test.com"

	t.Run("email change checks for collisions", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 4).Return(stored, nil).Once()
		mockRepo.On("GetUserByEmail", newEmail).Return(&model.User{ID: 8, Email: newEmail}, nil).Once()

		userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))
		_, err := userService.UpdateUser(4, model.UpdateUserRequest{Email: &newEmail})

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "UpdateUser")
	})

	t.Run("success", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 4).Return(stored, nil).Once()
		mockRepo.On("GetUserByEmail", newEmail).Return(nil, repository.ErrUserNotFound).Once()
		mockRepo.On("UpdateUser", mock.AnythingOfType("*model.User")).Return(nil).Once()

		userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))
		user, err := userService.UpdateUser(4, model.UpdateUserRequest{Email: &newEmail})

		assert.NoError(t, err)
		assert.Equal(t, newEmail, user.Email)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := new(mockUserRepo)
	mockRepo.On("DeleteUser", 6).Return(nil).Once()

	userService := NewUserService(mockRepo, NewPasswordService(4), newTestCache(t))
	assert.NoError(t, userService.DeleteUser(6))

	mockRepo.On("DeleteUser", 7).Return(repository.ErrUserNotFound).Once()
	assert.ErrorIs(t, userService.DeleteUser(7), ErrUserNotFound)
}
