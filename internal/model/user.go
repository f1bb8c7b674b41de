package model

import "time"

// User roles
const (
	RoleUser          = "user"
	RoleHospitalAdmin = "hospitalAdmin"
	RoleAdmin         = "admin"
)

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleHospitalAdmin, RoleAdmin:
		return true
	}
	return false
}

// User represents a platform account.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserRef is the embedded author/actor shape returned inside other resources.
type UserRef struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the login payload: a bearer token plus the public user shape.
type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ChangeRoleRequest struct {
	UserID  int64  `json:"userId" binding:"required"`
	NewRole string `json:"newRole" binding:"required,role"`
}
