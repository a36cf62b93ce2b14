package model

import "time"

// Role represents an API user's role.
type Role string

const (
	RoleDirector Role = "director"
	RoleStaff    Role = "staff"
)

// User is an API login account (director or staff).
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
}
