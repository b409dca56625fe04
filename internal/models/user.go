package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	Username     string    `json:"username" db:"username"`     // Unique username, primary key
	PasswordHash string    `json:"-" db:"password_hash"`       // bcrypt digest, never serialized
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // Registration timestamp
}
