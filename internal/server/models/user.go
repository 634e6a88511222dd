// Package models defines the server-side records persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash holds the self-describing digest
// produced by the password hasher, never the plaintext.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	Description  string
	IsActive     bool
	CreatedAt    time.Time
}

// UserProfile is the public view of a User.
type UserProfile struct {
	ID          int64  `json:"id"`
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

// Profile strips the password hash.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		Description: u.Description,
		IsActive:    u.IsActive,
	}
}
