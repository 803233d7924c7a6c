package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the identity payload embedded in both the access and the
// refresh token. Immutable once issued; a role change only becomes
// visible when a new pair is minted.
type AppClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
