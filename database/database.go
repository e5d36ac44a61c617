package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/FTCService/JSJREWARD/models"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Enable pgcrypto extension for gen_random_uuid()
	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	// Order matters: business_members references reward_rules
	tables := []interface{}{
		models.RewardRule{},
		models.BusinessMember{},
		models.CumulativePoints{},
		models.CardTransaction{},
		models.CardDesign{},
		models.JoinRequest{},
		models.StaffUser{},
		models.SurveySubmission{},
	}

	for _, model := range tables {
		if tableModel, ok := model.(interface {
			TableName() string
			CreateTableSQL() string
		}); ok {
			tableName := tableModel.TableName()
			createSQL := tableModel.CreateTableSQL()

			log.Printf("Creating table: %s", tableName)
			if _, err := db.Exec(createSQL); err != nil {
				return fmt.Errorf("failed to create table %s: %w", tableName, err)
			}
		}
	}

	// Run schema migrations
	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("All tables created successfully!")
	return nil
}

// runMigrations handles schema updates for existing tables
func (db *DB) runMigrations() error {
	migrations := []string{
		// Display ordering for rules added after the first deployment
		`ALTER TABLE reward_rules ADD COLUMN IF NOT EXISTS sequence_in_business INT NOT NULL DEFAULT 1;`,

		// Milestone gating was introduced after the original rules table
		`ALTER TABLE reward_rules ADD COLUMN IF NOT EXISTS milestone BIGINT NOT NULL DEFAULT 0;`,

		// Join requests gained an approval status
		`ALTER TABLE join_requests ADD COLUMN IF NOT EXISTS status TEXT NOT NULL DEFAULT 'pending';`,

		// Staff accounts gained a role column
		`ALTER TABLE staff_users ADD COLUMN IF NOT EXISTS role TEXT NOT NULL DEFAULT 'staff';`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
