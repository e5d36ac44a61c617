package models

import (
	"time"
)

// BusinessMember is a card enrolled under a business against one reward rule.
type BusinessMember struct {
	ID          int64      `json:"id" db:"id"`
	BusinessID  int64      `json:"business_id" db:"business_id"`
	CardNumber  string     `json:"card_number" db:"card_number"`
	RuleID      int64      `json:"rule_id" db:"rule_id"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	IssueDate   time.Time  `json:"issue_date" db:"issue_date"`
	ValidityEnd *time.Time `json:"validity_end" db:"validity_end"`
}

func (BusinessMember) TableName() string {
	return "business_members"
}

func (BusinessMember) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS business_members (
		id SERIAL PRIMARY KEY,
		business_id BIGINT NOT NULL,
		card_number TEXT NOT NULL,
		rule_id INT NOT NULL REFERENCES reward_rules(id) ON DELETE CASCADE,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		issue_date TIMESTAMP WITH TIME ZONE DEFAULT now(),
		validity_end TIMESTAMP WITH TIME ZONE
	);
	CREATE UNIQUE INDEX IF NOT EXISTS business_members_one_active_card
		ON business_members (business_id, card_number) WHERE is_active;
	CREATE INDEX IF NOT EXISTS business_members_card_idx
		ON business_members (card_number);`
}
