// file: service/user_service.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUserNotFound is the service-level miss for direct-id operations.
// The refresh path never surfaces it; see AuthService.Refresh.
var ErrUserNotFound = errors.New("user not found")

const userCacheTTL = 10 * time.Minute

// UserService handles user management with a cache-aside read path.
// Writes invalidate the cached record so a role change is visible to the
// next read and to the next token refresh.
type UserService struct {
	users     repository.IUserRepository
	passwords *PasswordService
	cache     ICacheClient
}

func NewUserService(users repository.IUserRepository, passwords *PasswordService, cache ICacheClient) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		cache:     cache,
	}
}

// CreateUser is the admin-facing create; unlike Register it may assign a
// role directly.
func (s *UserService) CreateUser(req model.CreateUserRequest) (*model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	hashedPassword, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: hashedPassword,
		Role:     string(role),
	}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User created")
	return user, nil
}

// GetUserByID fetches a user, utilizing a cache-aside strategy.
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	cacheKey := userCacheKey(id)
	ctx := context.Background()

	// 1. Try to get data from the cache.
	if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
		user := &model.User{}
		if err := json.Unmarshal([]byte(cached), user); err == nil {
			return user, nil
		}
	}

	// 2. Cache miss. Fetch from the database.
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 3. Store the result for future requests. The password hash is
	// excluded by the model's JSON tags, so it never reaches the cache.
	if data, err := json.Marshal(user); err == nil {
		s.cache.Set(ctx, cacheKey, data, userCacheTTL)
	}

	return user, nil
}

// ListUsers returns one page of users with the total count. Listings
// are not cached so management views stay fresh.
func (s *UserService) ListUsers(params repository.ListUsersParams) ([]*model.User, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	return s.users.ListUsers(params)
}

// UpdateUser applies a partial update. An email change is checked
// against the store first; the unique constraint still backstops the
// race and maps to the same ErrEmailTaken.
func (s *UserService) UpdateUser(id int, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.users.GetUserByEmail(*req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = string(*req.Role)
	}

	if err := s.users.UpdateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.invalidate(id)
	logger.Log.WithField("user_id", id).Info("User updated")
	return user, nil
}

// UpdateUserRole validates the role and calls the repository to update it.
// The change takes effect on the user's next token refresh, not on
// access tokens already in flight.
func (s *UserService) UpdateUserRole(userID int, newRole model.Role) error {
	if newRole != model.RoleAdmin && newRole != model.RoleUser {
		return errors.New("invalid role specified")
	}

	if err := s.users.UpdateUserRole(userID, string(newRole)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.invalidate(userID)
	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"role":    newRole,
	}).Info("User role updated")
	return nil
}

func (s *UserService) DeleteUser(id int) error {
	if err := s.users.DeleteUser(id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.invalidate(id)
	logger.Log.WithField("user_id", id).Info("User deleted")
	return nil
}

func (s *UserService) invalidate(id int) {
	s.cache.Del(context.Background(), userCacheKey(id))
}

func userCacheKey(id int) string {
	return fmt.Sprintf("user:%d", id)
}
