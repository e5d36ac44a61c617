package models

import (
	"time"

	"github.com/google/uuid"
)

// Join request lifecycle states.
const (
	JoinRequestPending  = "pending"
	JoinRequestApproved = "approved"
	JoinRequestRejected = "rejected"
)

// JoinRequest is created when a member scans a business QR code and asks to be
// enrolled. Approval by the business turns it into a BusinessMember row.
type JoinRequest struct {
	ID           uuid.UUID `json:"id" db:"id"`
	BusinessID   int64     `json:"business_id" db:"business_id"`
	CardNumber   string    `json:"card_number" db:"card_number"`
	FullName     *string   `json:"full_name" db:"full_name"`
	MobileNumber *string   `json:"mobile_number" db:"mobile_number"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (JoinRequest) TableName() string {
	return "join_requests"
}

func (JoinRequest) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS join_requests (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		business_id BIGINT NOT NULL,
		card_number TEXT NOT NULL,
		full_name TEXT,
		mobile_number TEXT,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS join_requests_business_idx ON join_requests (business_id, status);`
}
