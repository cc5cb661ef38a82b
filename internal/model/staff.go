package model

import "time"

// StaffRole enumerates elevated roles.
type StaffRole string

const (
	StaffRoleProctor StaffRole = "PROCTOR"
	StaffRoleAdmin   StaffRole = "ADMIN"
)

// StaffUser represents a proctor or administrator account.
type StaffUser struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StaffLoginRequest is the payload for staff authentication.
type StaffLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// StaffLoginResponse is returned after successful staff login.
type StaffLoginResponse struct {
	Token string    `json:"token"`
	Staff StaffUser `json:"staff"`
}
