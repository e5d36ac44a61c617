package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffUser is a dashboard operator account. Regular business and member
// authentication is delegated to the external SSO server; staff accounts are
// the only credentials this service owns.
type StaffUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}

func (StaffUser) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS staff_users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT UNIQUE NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT,
		role TEXT NOT NULL DEFAULT 'staff',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
