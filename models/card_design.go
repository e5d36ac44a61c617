package models

import (
	"time"

	"github.com/google/uuid"
)

type CardDesign struct {
	ID               uuid.UUID `json:"id" db:"id"`
	BusinessID       int64     `json:"business_id" db:"business_id"`
	DesignTemplateID *string   `json:"design_template_id" db:"design_template_id"`
	Logo             *string   `json:"logo" db:"logo"`
	BackgroundColor  string    `json:"background_color" db:"background_color"`
	TextColor        string    `json:"text_color" db:"text_color"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

func (CardDesign) TableName() string {
	return "card_designs"
}

func (CardDesign) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS card_designs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		business_id BIGINT NOT NULL,
		design_template_id TEXT,
		logo TEXT,
		background_color TEXT NOT NULL DEFAULT '#FFFFFF',
		text_color TEXT NOT NULL DEFAULT '#000000',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS card_designs_business_idx ON card_designs (business_id);`
}
