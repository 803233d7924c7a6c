package service

import (
	"errors"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
)

// Expected authentication failures. Deliberately coarse: the login and
// refresh paths collapse their internal causes into a single error each
// so callers cannot probe which check failed.
var (
	ErrEmailTaken          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// AuthResult is what register and login hand back to the transport
// layer: the stored user plus a fresh token pair.
type AuthResult struct {
	User   *model.User
	Tokens *TokenPair
}

// AuthService orchestrates register, login and refresh over the user
// store, the password hasher and the token codec.
type AuthService struct {
	users     repository.IUserRepository
	tokens    *TokenService
	passwords *PasswordService
}

func NewAuthService(users repository.IUserRepository, tokens *TokenService, passwords *PasswordService) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
	}
}

// Register creates a user with the default role and issues a token pair.
// The email-exists pre-check is advisory; the unique constraint catches
// the concurrent-create race and is reported as the same ErrEmailTaken.
func (s *AuthService) Register(req model.RegisterRequest) (*AuthResult, error) {
	if _, err := s.users.GetUserByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: hashedPassword,
		Role:     string(model.RoleUser),
	}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	tokens, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login verifies credentials and issues a fresh token pair. An unknown
// email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(req model.LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwords.Check(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh redeems a refresh token for a brand-new pair. The user record
// is re-read so claims reflect the current role, not the one embedded at
// issue time. Every failure mode (malformed, bad signature, expired,
// user gone) collapses into ErrInvalidRefreshToken.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	tokens, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Debug("Token pair rotated")
	return tokens, nil
}
