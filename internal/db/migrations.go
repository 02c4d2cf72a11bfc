package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS contract (
		id BIGSERIAL PRIMARY KEY,
		contract_type VARCHAR(16) NOT NULL,
		start_date DATE NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'Active',

		customer_name VARCHAR(255) NOT NULL,
		customer_phone VARCHAR(64) NOT NULL DEFAULT '',
		customer_address TEXT NOT NULL DEFAULT '',

		vehicle_plate VARCHAR(32) NOT NULL DEFAULT '',
		vehicle_vin VARCHAR(64) NOT NULL DEFAULT '',
		vehicle_type VARCHAR(32) NOT NULL DEFAULT 'Car',
		vehicle_make VARCHAR(64) NOT NULL DEFAULT '',
		vehicle_model VARCHAR(64) NOT NULL DEFAULT '',
		vehicle_year INT,
		vehicle_color VARCHAR(32) NOT NULL DEFAULT '',
		vehicle_initial_mileage NUMERIC(12,1) NOT NULL DEFAULT 0,

		rate_mode VARCHAR(16) NOT NULL DEFAULT 'daily',
		daily_storage_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		weekly_storage_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		monthly_storage_fee NUMERIC(12,2) NOT NULL DEFAULT 0,

		tow_base_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		tow_mileage_rate NUMERIC(12,2) NOT NULL DEFAULT 0,
		tow_miles_included NUMERIC(12,1) NOT NULL DEFAULT 0,
		tow_miles_used NUMERIC(12,1) NOT NULL DEFAULT 0,
		tow_hourly_labor_rate NUMERIC(12,2) NOT NULL DEFAULT 0,
		tow_extra_labor_minutes NUMERIC(12,1) NOT NULL DEFAULT 0,
		tow_after_hours_fee NUMERIC(12,2) NOT NULL DEFAULT 0,

		recovery_handling_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		lien_processing_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		cert_mail_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		title_search_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		dmv_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		sale_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		notices_sent INT NOT NULL DEFAULT 0,

		admin_fee NUMERIC(12,2) NOT NULL DEFAULT 0,

		first_notice_sent_date DATE,
		second_notice_sent_date DATE,

		notes JSONB NOT NULL DEFAULT '[]',
		attachments JSONB NOT NULL DEFAULT '[]',
		fees JSONB NOT NULL DEFAULT '[]',
		audit_log JSONB NOT NULL DEFAULT '[]',

		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS payment (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		contract_id BIGINT NOT NULL REFERENCES contract(id),
		paid_on DATE NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		method VARCHAR(32) NOT NULL DEFAULT 'cash',
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS notice (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		contract_id BIGINT NOT NULL REFERENCES contract(id),
		sequence VARCHAR(16) NOT NULL DEFAULT 'first',
		notice_type VARCHAR(64) NOT NULL,
		date_generated DATE NOT NULL,
		date_sent DATE,
		amount_due NUMERIC(12,2) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_type ON contract (contract_type);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_status ON contract (status);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_start_date ON contract (start_date);`,
	`CREATE INDEX IF NOT EXISTS idx_payment_contract_id ON payment (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_notice_contract_id ON notice (contract_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
