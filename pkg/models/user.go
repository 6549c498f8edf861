package models

import "time"

// User is an authenticated learner account
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Username  string    `json:"username" db:"username"`
	Bio       string    `json:"bio" db:"bio"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AuthData is what gets cached locally after a successful login
type AuthData struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// LoginCredentials are the fields needed to log in
type LoginCredentials struct {
	Email    string
	Password string
}

// RegisterCredentials are the fields needed to create an account
type RegisterCredentials struct {
	Email    string
	Username string
	Password string
}

// ProfileUpdate carries optional profile changes; nil fields are left untouched
type ProfileUpdate struct {
	Username *string
	Bio      *string
}
