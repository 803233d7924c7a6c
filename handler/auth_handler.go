// file: handler/auth_handler.go

package handler

import (
	"encoding/json"
	"errors"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
	"time"
)

const (
	refreshCookieName = "refresh_token"
	// The clear on logout must use the same path as the set, or some
	// clients silently keep the cookie.
	refreshCookiePath = "/api/auth"
)

type AuthHandler struct {
	service       *service.AuthService
	refreshTTL    time.Duration
	secureCookies bool
}

// NewAuthHandler wires the session flow to the HTTP surface. The cookie
// MaxAge follows the refresh token TTL so the two expiries stay
// consistent; Secure is only set in production-like environments.
func NewAuthHandler(authService *service.AuthService, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		service:       authService,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account, sets the refresh cookie and returns an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  common.AppError
// @Failure      409  {object}  common.AppError
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	result, err := h.service.Register(req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return common.NewAppError(http.StatusConflict, "User already exists", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not register user", err)
	}

	h.setRefreshCookie(w, result.Tokens.RefreshToken)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     "User registered successfully",
		"user":        result.User,
		"accessToken": result.Tokens.AccessToken,
	})
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials, sets the refresh cookie and returns an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login payload"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	result, err := h.service.Login(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid credentials", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	h.setRefreshCookie(w, result.Tokens.RefreshToken)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     "Login successful",
		"user":        result.User,
		"accessToken": result.Tokens.AccessToken,
	})
	return nil
}

// Refresh godoc
// @Summary      Rotate the token pair
// @Description  Redeems the refresh token (cookie or body) for a new access token and rotated refresh cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshRequest false "Body fallback when no cookie is present"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	refreshToken := h.refreshTokenFromRequest(r)
	if refreshToken == "" {
		return common.NewAppError(http.StatusUnauthorized, "Refresh token required", nil)
	}

	tokens, err := h.service.Refresh(refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid refresh token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh token", err)
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     "Token refreshed successfully",
		"accessToken": tokens.AccessToken,
	})
	return nil
}

// Logout godoc
// @Summary      Log the user out
// @Description  Clears the refresh cookie; the token values themselves simply expire
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	h.clearRefreshCookie(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logout successful"})
	return nil
}

// refreshTokenFromRequest prefers the HttpOnly cookie and falls back to
// the request body for cookie-less clients.
func (h *AuthHandler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
