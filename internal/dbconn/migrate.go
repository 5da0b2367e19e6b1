package dbconn

import (
	"context"

	"fleetledger/internal/logging"

	"go.uber.org/zap"
)

// Migrate creates all tables if they don't exist, adds columns, triggers,
// and indexes, and seeds default data. Safe to run multiple times — every
// statement is idempotent (IF NOT EXISTS / ON CONFLICT DO NOTHING).
func Migrate() {
	sql := `
	CREATE EXTENSION IF NOT EXISTS pgcrypto;
	CREATE EXTENSION IF NOT EXISTS btree_gist;

	-- ═══════════════════════════════════════════
	-- REUSABLE TRIGGER FUNCTIONS
	-- ═══════════════════════════════════════════
	CREATE OR REPLACE FUNCTION touch_updated_at() RETURNS TRIGGER AS $$
	BEGIN
		NEW."updatedAt" = NOW();
		NEW.version = OLD.version + 1;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;

	-- ═══════════════════════════════════════════
	-- ROLES TABLE — RBAC seed
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS roles (
		name TEXT PRIMARY KEY
	);
	INSERT INTO roles (name) VALUES
		('ADMIN'), ('FLEET_MANAGER'), ('RENTAL_AGENT'), ('FINANCE_OWNER'), ('CUSTOMER')
	ON CONFLICT (name) DO NOTHING;

	-- ═══════════════════════════════════════════
	-- USERS TABLE — staff/admin login
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		roles TEXT[] NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS refresh_tokens (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		"userId" TEXT NOT NULL REFERENCES users(id),
		token_hash TEXT NOT NULL,
		"expiresAt" TIMESTAMPTZ NOT NULL,
		"revokedAt" TIMESTAMPTZ,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens("userId");

	-- ═══════════════════════════════════════════
	-- CUSTOMERS TABLE
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		full_name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		phone_number TEXT UNIQUE NOT NULL,
		driver_license_number TEXT,
		driver_license_expiry TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		version INTEGER NOT NULL DEFAULT 0,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	ALTER TABLE customers ADD COLUMN IF NOT EXISTS driver_license_expiry TIMESTAMPTZ;
	CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email);
	CREATE INDEX IF NOT EXISTS idx_customers_status ON customers(status);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_license_unique ON customers(driver_license_number)
		WHERE driver_license_number IS NOT NULL;
	DROP TRIGGER IF EXISTS trg_customers_touch ON customers;
	CREATE TRIGGER trg_customers_touch BEFORE UPDATE ON customers
		FOR EACH ROW EXECUTE FUNCTION touch_updated_at();

	-- ═══════════════════════════════════════════
	-- VEHICLES TABLE — fleet inventory
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		vin TEXT UNIQUE NOT NULL,
		license_plate TEXT UNIQUE NOT NULL,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		"year" INTEGER NOT NULL,
		color TEXT,
		passenger_capacity INTEGER NOT NULL DEFAULT 4,
		odometer_km INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'AVAILABLE',
		daily_rate_php BIGINT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'PHP',
		last_location_lat DOUBLE PRECISION,
		last_location_lng DOUBLE PRECISION,
		route_progress DOUBLE PRECISION,
		bearing DOUBLE PRECISION,
		version INTEGER NOT NULL DEFAULT 0,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles(status);
	CREATE INDEX IF NOT EXISTS idx_vehicles_vin ON vehicles(vin);
	CREATE INDEX IF NOT EXISTS idx_vehicles_plate ON vehicles(license_plate);
	DROP TRIGGER IF EXISTS trg_vehicles_touch ON vehicles;
	CREATE TRIGGER trg_vehicles_touch BEFORE UPDATE ON vehicles
		FOR EACH ROW EXECUTE FUNCTION touch_updated_at();

	-- Append-only odometer readings with monotonicity enforced by trigger.
	CREATE TABLE IF NOT EXISTS odometer_readings (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
		reading_km INTEGER NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		source TEXT NOT NULL DEFAULT 'MANUAL'
	);
	CREATE INDEX IF NOT EXISTS idx_odometer_vehicle ON odometer_readings(vehicle_id, recorded_at DESC);

	CREATE OR REPLACE FUNCTION enforce_odometer_monotonic() RETURNS TRIGGER AS $$
	DECLARE
		current_km INTEGER;
	BEGIN
		SELECT odometer_km INTO current_km FROM vehicles WHERE id = NEW.vehicle_id FOR UPDATE;
		IF current_km IS NOT NULL AND NEW.reading_km < current_km THEN
			RAISE EXCEPTION 'odometer reading % is less than current % for vehicle %',
				NEW.reading_km, current_km, NEW.vehicle_id
				USING ERRCODE = 'check_violation';
		END IF;
		UPDATE vehicles SET odometer_km = NEW.reading_km WHERE id = NEW.vehicle_id;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;
	DROP TRIGGER IF EXISTS trg_odometer_monotonic ON odometer_readings;
	CREATE TRIGGER trg_odometer_monotonic BEFORE INSERT ON odometer_readings
		FOR EACH ROW EXECUTE FUNCTION enforce_odometer_monotonic();

	-- ═══════════════════════════════════════════
	-- RENTALS TABLE — reservation lifecycle
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS rentals (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		rental_number TEXT UNIQUE NOT NULL DEFAULT ('RNT-' || substr(gen_random_uuid()::text, 1, 8)),
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
		customer_id TEXT NOT NULL REFERENCES customers(id),
		status TEXT NOT NULL DEFAULT 'RESERVED',
		starts_at TIMESTAMPTZ NOT NULL,
		ends_at TIMESTAMPTZ NOT NULL,
		actual_return_at TIMESTAMPTZ,
		start_odometer_km INTEGER,
		end_odometer_km INTEGER,
		daily_rate_php BIGINT NOT NULL,
		total_due_php BIGINT,
		version INTEGER NOT NULL DEFAULT 0,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_rentals_vehicle_status ON rentals(vehicle_id, status);
	CREATE INDEX IF NOT EXISTS idx_rentals_customer ON rentals(customer_id, "createdAt" DESC);
	CREATE INDEX IF NOT EXISTS idx_rentals_status ON rentals(status);
	DROP TRIGGER IF EXISTS trg_rentals_touch ON rentals;
	CREATE TRIGGER trg_rentals_touch BEFORE UPDATE ON rentals
		FOR EACH ROW EXECUTE FUNCTION touch_updated_at();

	-- Non-overlap is enforced on a separate narrow table so the exclusion
	-- constraint only ever looks at (vehicle, period, status) — not the
	-- whole wide rentals row.
	CREATE TABLE IF NOT EXISTS rental_periods (
		rental_id TEXT PRIMARY KEY REFERENCES rentals(id),
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
		status TEXT NOT NULL,
		period TSTZRANGE NOT NULL,
		EXCLUDE USING gist (vehicle_id WITH =, period WITH &&)
			WHERE (status IN ('RESERVED', 'ACTIVE'))
	);
	CREATE INDEX IF NOT EXISTS idx_rental_periods_vehicle ON rental_periods(vehicle_id);

	-- ═══════════════════════════════════════════
	-- MAINTENANCE JOBS
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS maintenance_jobs (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		job_number TEXT UNIQUE NOT NULL DEFAULT ('JOB-' || substr(gen_random_uuid()::text, 1, 8)),
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
		job_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'SCHEDULED',
		scheduled_at TIMESTAMPTZ NOT NULL,
		started_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		odometer_km_at_service INTEGER,
		labor_cost_php BIGINT NOT NULL DEFAULT 0,
		parts_cost_php BIGINT NOT NULL DEFAULT 0,
		total_cost_php BIGINT NOT NULL DEFAULT 0,
		notes TEXT,
		version INTEGER NOT NULL DEFAULT 0,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_maintenance_vehicle_status ON maintenance_jobs(vehicle_id, status);
	DROP TRIGGER IF EXISTS trg_maintenance_touch ON maintenance_jobs;
	CREATE TRIGGER trg_maintenance_touch BEFORE UPDATE ON maintenance_jobs
		FOR EACH ROW EXECUTE FUNCTION touch_updated_at();

	CREATE TABLE IF NOT EXISTS maintenance_parts (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		maintenance_job_id TEXT NOT NULL REFERENCES maintenance_jobs(id),
		part_name TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		unit_cost_php BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_maintenance_parts_job ON maintenance_parts(maintenance_job_id);

	-- ═══════════════════════════════════════════
	-- CHART OF ACCOUNTS + LEDGER (double-entry)
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		code TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		account_type TEXT NOT NULL,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	INSERT INTO accounts (id, code, name, account_type) VALUES
		(gen_random_uuid()::text, '1000', 'Cash and Cash Equivalents', 'ASSET'),
		(gen_random_uuid()::text, '1100', 'Accounts Receivable', 'ASSET'),
		(gen_random_uuid()::text, '1500', 'Fleet Vehicles', 'ASSET'),
		(gen_random_uuid()::text, '2000', 'Accounts Payable', 'LIABILITY'),
		(gen_random_uuid()::text, '3000', 'Owners Equity', 'EQUITY'),
		(gen_random_uuid()::text, '4000', 'Rental Revenue', 'REVENUE'),
		(gen_random_uuid()::text, '4100', 'Late Fees', 'REVENUE'),
		(gen_random_uuid()::text, '5000', 'Maintenance Expense', 'EXPENSE')
	ON CONFLICT (code) DO NOTHING;

	CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		entry_number TEXT UNIQUE NOT NULL DEFAULT ('LE-' || substr(gen_random_uuid()::text, 1, 8)),
		external_reference TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL,
		posted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_posted ON ledger_entries(posted_at);

	CREATE TABLE IF NOT EXISTS ledger_entry_lines (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		ledger_entry_id TEXT NOT NULL REFERENCES ledger_entries(id),
		account_id TEXT NOT NULL REFERENCES accounts(id),
		debit_php BIGINT NOT NULL DEFAULT 0,
		credit_php BIGINT NOT NULL DEFAULT 0,
		CHECK (debit_php >= 0 AND credit_php >= 0),
		CHECK (debit_php = 0 OR credit_php = 0)
	);
	CREATE INDEX IF NOT EXISTS idx_ledger_lines_entry ON ledger_entry_lines(ledger_entry_id);
	CREATE INDEX IF NOT EXISTS idx_ledger_lines_account ON ledger_entry_lines(account_id);

	-- Balance check runs per inserted line but is deferred to end of
	-- transaction, so a caller can insert N lines for one entry and have
	-- each check see the entry's final totals rather than a partial sum.
	CREATE OR REPLACE FUNCTION enforce_ledger_balance() RETURNS TRIGGER AS $$
	DECLARE
		imbalance BIGINT;
	BEGIN
		SELECT COALESCE(SUM(debit_php) - SUM(credit_php), 0) INTO imbalance
		FROM ledger_entry_lines WHERE ledger_entry_id = NEW.ledger_entry_id;
		IF imbalance <> 0 THEN
			RAISE EXCEPTION 'ledger entry % is unbalanced by %', NEW.ledger_entry_id, imbalance
				USING ERRCODE = 'check_violation';
		END IF;
		RETURN NULL;
	END;
	$$ LANGUAGE plpgsql;

	DROP TRIGGER IF EXISTS trg_ledger_balance ON ledger_entry_lines;
	CREATE CONSTRAINT TRIGGER trg_ledger_balance
		AFTER INSERT ON ledger_entry_lines
		DEFERRABLE INITIALLY DEFERRED
		FOR EACH ROW EXECUTE FUNCTION enforce_ledger_balance();

	-- ═══════════════════════════════════════════
	-- INVOICES & PAYMENTS
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		invoice_number TEXT UNIQUE NOT NULL DEFAULT ('INV-' || substr(gen_random_uuid()::text, 1, 8)),
		rental_id TEXT REFERENCES rentals(id),
		maintenance_job_id TEXT REFERENCES maintenance_jobs(id),
		customer_id TEXT REFERENCES customers(id),
		subtotal_php BIGINT NOT NULL DEFAULT 0,
		tax_php BIGINT NOT NULL DEFAULT 0,
		amount_due_php BIGINT NOT NULL,
		amount_paid_php BIGINT NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		version INTEGER NOT NULL DEFAULT 0,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	ALTER TABLE invoices ADD COLUMN IF NOT EXISTS subtotal_php BIGINT NOT NULL DEFAULT 0;
	ALTER TABLE invoices ADD COLUMN IF NOT EXISTS tax_php BIGINT NOT NULL DEFAULT 0;
	ALTER TABLE invoices ALTER COLUMN status SET DEFAULT 'DRAFT';
	CREATE INDEX IF NOT EXISTS idx_invoices_rental ON invoices(rental_id);
	CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status);
	DROP TRIGGER IF EXISTS trg_invoices_touch ON invoices;
	CREATE TRIGGER trg_invoices_touch BEFORE UPDATE ON invoices
		FOR EACH ROW EXECUTE FUNCTION touch_updated_at();

	-- payment_methods is a configuration table (code -> target account),
	-- not a customer's saved instrument — it drives which asset account a
	-- capture debits.
	CREATE TABLE IF NOT EXISTS payment_methods (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		code TEXT UNIQUE NOT NULL,
		display_name TEXT NOT NULL,
		target_account_code TEXT NOT NULL DEFAULT '1000' REFERENCES accounts(code),
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	INSERT INTO payment_methods (id, code, display_name, target_account_code) VALUES
		(gen_random_uuid()::text, 'CASH', 'Cash', '1000'),
		(gen_random_uuid()::text, 'GCASH', 'GCash', '1000'),
		(gen_random_uuid()::text, 'CARD', 'Credit/Debit Card', '1000')
	ON CONFLICT (code) DO NOTHING;

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		payment_number TEXT UNIQUE NOT NULL DEFAULT ('PAY-' || substr(gen_random_uuid()::text, 1, 8)),
		invoice_id TEXT NOT NULL REFERENCES invoices(id),
		payment_method_id TEXT REFERENCES payment_methods(id),
		amount_php BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'CAPTURED',
		external_reference TEXT UNIQUE,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_payments_invoice ON payments(invoice_id);

	-- ═══════════════════════════════════════════
	-- IDEMPOTENCY KEYS
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS idempotency_keys (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		idempotency_key TEXT UNIQUE NOT NULL,
		request_fingerprint TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'IN_PROGRESS',
		response_status_code INTEGER,
		response_body BYTEA,
		expires_at TIMESTAMPTZ NOT NULL,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_idempotency_key ON idempotency_keys(idempotency_key);
	CREATE INDEX IF NOT EXISTS idx_idempotency_expires ON idempotency_keys(expires_at);

	-- ═══════════════════════════════════════════
	-- OUTBOX / INBOX / DLQ — async event plumbing
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS outbox_events (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		published_at TIMESTAMPTZ,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_outbox_unpublished ON outbox_events(published_at) WHERE published_at IS NULL;

	CREATE TABLE IF NOT EXISTS inbox_processed_messages (
		message_id TEXT PRIMARY KEY,
		processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS dlq_messages (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		source_event_id TEXT,
		reason TEXT NOT NULL,
		payload JSONB,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- ═══════════════════════════════════════════
	-- EXTERNAL API LOGS — audit trail for opaque adapters
	-- (spatial snapping provider, etc.)
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS external_api_logs (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		provider TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		"requestId" TEXT UNIQUE,
		"requestPayload" JSONB,
		"responsePayload" JSONB,
		"statusCode" INTEGER,
		"durationMs" INTEGER,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_api_logs_requestid ON external_api_logs("requestId");
	CREATE INDEX IF NOT EXISTS idx_api_logs_created ON external_api_logs("createdAt");
	`

	_, err := Pool.Exec(context.Background(), sql)
	if err != nil {
		logging.Logger.Fatal("migration failed", zap.Error(err))
	}
	logging.Logger.Info("database migration completed successfully")
}
