package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskDB represents a task row in the database
type TaskDB struct {
	TaskID      uuid.UUID `json:"id" db:"task_id"`              // Store-assigned identifier
	Owner       string    `json:"owner" db:"owner"`             // Username of the creator
	Title       string    `json:"title" db:"title"`             // Required title
	Description *string   `json:"description" db:"description"` // Optional description
	Completed   bool      `json:"completed" db:"completed"`     // Completion flag
	CreatedAt   time.Time `json:"created_at" db:"created_at"`   // Creation timestamp
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`   // Last update timestamp
}
