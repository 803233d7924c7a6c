// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new account.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest is the body fallback for clients that cannot send the
// refresh cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// CreateUserRequest is the admin-only variant of RegisterRequest that
// may also set the role directly.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

// UpdateUserRequest carries partial updates; nil fields are untouched.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role  *Role   `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
// Using a dedicated struct instead of an inline anonymous struct in the handler
// improves code clarity, reusability, and compatibility with tooling like swag.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin user"`
}
