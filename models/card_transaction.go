package models

import (
	"time"
)

// Transaction types recorded against a card.
const (
	TransactionTypeEarned   = "Points_Earned"
	TransactionTypeRedeemed = "Points_Redeemed"
)

// CardTransaction is an immutable ledger entry. Rows are insert-only; every row
// corresponds to exactly one cumulative_points mutation applied in the same
// database transaction.
type CardTransaction struct {
	ID              int64     `json:"id" db:"id"`
	BusinessID      int64     `json:"business_id" db:"business_id"`
	CardNumber      string    `json:"card_number" db:"card_number"`
	PurchaseAmount  float64   `json:"purchase_amount" db:"purchase_amount"`
	Points          int64     `json:"points" db:"points"`
	TransactionType string    `json:"transaction_type" db:"transaction_type"`
	TransactionDate time.Time `json:"transaction_date" db:"transaction_date"`
}

func (CardTransaction) TableName() string {
	return "card_transactions"
}

func (CardTransaction) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS card_transactions (
		id BIGSERIAL PRIMARY KEY,
		business_id BIGINT NOT NULL,
		card_number TEXT NOT NULL,
		purchase_amount DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (purchase_amount >= 0),
		points BIGINT NOT NULL DEFAULT 0 CHECK (points >= 0),
		transaction_type TEXT NOT NULL CHECK (transaction_type IN ('Points_Earned', 'Points_Redeemed')),
		transaction_date TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS card_transactions_card_biz_idx
		ON card_transactions (card_number, business_id, transaction_date DESC);`
}
