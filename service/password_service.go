// file: service/password_service.go

package service

import (
	"go-auth-api/logger"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService hashes credentials with bcrypt. Each hash embeds its
// own random salt and cost factor, so two hashes of the same password
// differ while verification stays deterministic.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a hasher with the given work factor.
// Costs outside bcrypt's supported range fall back to the default.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordService{cost: cost}
}

func (s *PasswordService) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// Check reports whether password matches hash. A mismatch is not an
// error condition; bcrypt's comparison is constant-time over the digest.
func (s *PasswordService) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
