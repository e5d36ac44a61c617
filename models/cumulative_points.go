package models

import (
	"time"
)

// CumulativePoints is the running ledger for one (card, business) pair.
// CurrentBalance always equals LifetimeEarnedPoints - LifetimeRedeemedPoints;
// the table-level CHECK constraints back that up.
type CumulativePoints struct {
	CardNumber             string    `json:"card_number" db:"card_number"`
	BusinessID             int64     `json:"business_id" db:"business_id"`
	LifetimeEarnedPoints   int64     `json:"lifetime_earned_points" db:"lifetime_earned_points"`
	LifetimeRedeemedPoints int64     `json:"lifetime_redeemed_points" db:"lifetime_redeemed_points"`
	CurrentBalance         int64     `json:"current_balance" db:"current_balance"`
	TotalPurchaseAmount    float64   `json:"total_purchase_amount" db:"total_purchase_amount"`
	LastUpdated            time.Time `json:"last_updated" db:"last_updated"`
}

func (CumulativePoints) TableName() string {
	return "cumulative_points"
}

func (CumulativePoints) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS cumulative_points (
		card_number TEXT NOT NULL,
		business_id BIGINT NOT NULL,
		lifetime_earned_points BIGINT NOT NULL DEFAULT 0 CHECK (lifetime_earned_points >= 0),
		lifetime_redeemed_points BIGINT NOT NULL DEFAULT 0 CHECK (lifetime_redeemed_points >= 0),
		current_balance BIGINT NOT NULL DEFAULT 0 CHECK (current_balance >= 0),
		total_purchase_amount DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (total_purchase_amount >= 0),
		last_updated TIMESTAMP WITH TIME ZONE DEFAULT now(),
		PRIMARY KEY (card_number, business_id),
		CHECK (current_balance = lifetime_earned_points - lifetime_redeemed_points)
	);`
}
