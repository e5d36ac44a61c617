package models

import (
	"time"
)

// Reward rule types a business can configure.
const (
	RuleTypePercentage            = "percentage"
	RuleTypePurchaseValueToPoints = "purchase_value_to_points"
	RuleTypeFlat                  = "flat"
)

// ValidRuleType reports whether t is one of the configured reward rule types.
func ValidRuleType(t string) bool {
	switch t {
	case RuleTypePercentage, RuleTypePurchaseValueToPoints, RuleTypeFlat:
		return true
	}
	return false
}

type RewardRule struct {
	ID                 int64     `json:"id" db:"id"`
	BusinessID         int64     `json:"business_id" db:"business_id"`
	RuleType           string    `json:"rule_type" db:"rule_type"`
	NotionalValue      float64   `json:"notional_value" db:"notional_value"`
	RuleValue          float64   `json:"rule_value" db:"rule_value"`
	ValidityYears      int       `json:"validity_years" db:"validity_years"`
	Milestone          int64     `json:"milestone" db:"milestone"`
	IsDefault          bool      `json:"is_default" db:"is_default"`
	SequenceInBusiness int       `json:"sequence_in_business" db:"sequence_in_business"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

func (RewardRule) TableName() string {
	return "reward_rules"
}

func (RewardRule) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS reward_rules (
		id SERIAL PRIMARY KEY,
		business_id BIGINT NOT NULL,
		rule_type TEXT NOT NULL CHECK (rule_type IN ('percentage', 'purchase_value_to_points', 'flat')),
		notional_value NUMERIC(10,2) NOT NULL DEFAULT 0,
		rule_value DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		validity_years INT NOT NULL CHECK (validity_years BETWEEN 1 AND 100),
		milestone BIGINT NOT NULL DEFAULT 0 CHECK (milestone >= 0),
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		sequence_in_business INT NOT NULL DEFAULT 1,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE (business_id, rule_type)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS reward_rules_one_default_per_business
		ON reward_rules (business_id) WHERE is_default;`
}
