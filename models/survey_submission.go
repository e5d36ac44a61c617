package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SurveySubmission is one response to the public feedback survey. The first
// submission carrying both a phone number and an email earns a one-time coupon
// code; later submissions from the same phone do not.
type SurveySubmission struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	Name       *string         `json:"name" db:"name"`
	Email      *string         `json:"email" db:"email"`
	Phone      *string         `json:"phone" db:"phone"`
	CouponCode *string         `json:"coupon_code" db:"coupon_code"`
	Questions  json.RawMessage `json:"questions" db:"questions"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

func (SurveySubmission) TableName() string {
	return "survey_submissions"
}

func (SurveySubmission) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS survey_submissions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT,
		email TEXT,
		phone TEXT,
		coupon_code TEXT UNIQUE,
		questions JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS survey_submissions_phone_idx ON survey_submissions (phone);`
}
