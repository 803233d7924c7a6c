package handler

import (
	"context"
	"errors"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
	"strings"
)

type contextKey string

// ClaimsKey holds the authenticated identity for the current request.
const ClaimsKey contextKey = "claims"

// ClaimsFromContext returns the identity attached by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*model.AppClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*model.AppClaims)
	return claims, ok
}

// Middleware is the shape every request decorator in this package takes.
type Middleware func(http.Handler) http.Handler

// AuthMiddleware extracts and verifies the Bearer access token and
// attaches the decoded claims to the request context. It never consults
// the user store; the access token is trusted for its whole lifetime.
func AuthMiddleware(tokens *service.TokenService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authentication required", nil).Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				common.NewAppError(http.StatusUnauthorized, "Authentication required", nil).Send(w)
				return
			}

			claims, err := tokens.VerifyAccessToken(headerParts[1])
			if err != nil {
				switch {
				case errors.Is(err, service.ErrTokenExpired):
					common.NewAppError(http.StatusUnauthorized, "Token expired", nil).Send(w)
				case errors.Is(err, service.ErrTokenInvalid), errors.Is(err, service.ErrTokenMalformed):
					common.NewAppError(http.StatusUnauthorized, "Invalid token", nil).Send(w)
				default:
					common.NewAppError(http.StatusUnauthorized, "Authentication failed", err).Send(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles allows the request through only when the authenticated
// identity's role is in the allow-set. A missing identity is a 401: it
// means the route was wired without AuthMiddleware in front.
func RequireRoles(roles ...model.Role) Middleware {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[string(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				common.NewAppError(http.StatusUnauthorized, "Authentication required", nil).Send(w)
				return
			}

			if _, ok := allowed[claims.Role]; !ok {
				common.NewAppError(http.StatusForbidden, "Access denied. Insufficient privileges.", nil).Send(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
