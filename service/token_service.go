// file: service/token_service.go

package service

import (
	"errors"
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expected verification failures. Anything else coming out of the codec
// is an unexpected condition and is returned as-is.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenInvalid   = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
)

// TokenPair bundles a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService signs and verifies the two token kinds. Access and
// refresh tokens carry the same claim payload but are signed with
// independent secrets and TTLs, so one kind never verifies as the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL exposes the refresh token lifetime so the cookie MaxAge
// can be kept consistent with the embedded expiry.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// GenerateTokenPair issues a new access/refresh pair for the user's
// current identity snapshot.
func (s *TokenService) GenerateTokenPair(user *model.User) (*TokenPair, error) {
	accessToken, err := s.issue(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issue(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *TokenService) VerifyAccessToken(tokenString string) (*model.AppClaims, error) {
	return verifyToken(tokenString, s.accessSecret)
}

func (s *TokenService) VerifyRefreshToken(tokenString string) (*model.AppClaims, error) {
	return verifyToken(tokenString, s.refreshSecret)
}

func (s *TokenService) issue(user *model.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// verifyToken checks the signature against the given secret and then the
// embedded expiry. jwt/v5 verifies the signature before validating
// claims, so a tampered token never reports Expired.
func verifyToken(tokenString string, secret []byte) (*model.AppClaims, error) {
	claims := &model.AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, err
		}
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
