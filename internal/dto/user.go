package dto

// CreateUserRequest is the payload for POST /users/.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Role     string `json:"role" validate:"required,oneof=admin teacher parent student staff"`
	Password string `json:"password" validate:"required,min=8"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest is the payload for PUT and PATCH /users/{id}/. Absent
// fields keep their stored value.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=150"`
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin teacher parent student staff"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	IsActive *bool   `json:"is_active"`
}

// RevokeTokenRequest is the payload for POST /token/revoke/.
type RevokeTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}
