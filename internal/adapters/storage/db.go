package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the database interface used by all stores.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// migrations is the ordered schema ladder. Each entry is applied once;
// schema_version records the last applied index.
var migrations = []string{
	// 1: initial schema
	`
	CREATE TABLE IF NOT EXISTS organization (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name TEXT NOT NULL,
		lastname TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'member',
		status TEXT NOT NULL DEFAULT 'pending',
		registration_completed INTEGER NOT NULL DEFAULT 0,
		activity_minutes INTEGER NOT NULL DEFAULT 0,
		fee_payment_year INTEGER,
		fee_payment_date TEXT,
		card_number TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (organization_id) REFERENCES organization(id)
	);

	CREATE TABLE IF NOT EXISTS membership_period (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		end_reason TEXT,
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS renewal_settings (
		organization_id TEXT PRIMARY KEY,
		renewal_start_month INTEGER NOT NULL,
		renewal_start_day INTEGER NOT NULL,
		activity_hours_threshold INTEGER NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (organization_id) REFERENCES organization(id)
	);

	CREATE TABLE IF NOT EXISTS activity (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		recognized_minutes INTEGER NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (organization_id) REFERENCES organization(id)
	);

	CREATE TABLE IF NOT EXISTS participation (
		id TEXT PRIMARY KEY,
		activity_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		minutes INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (activity_id) REFERENCES activity(id),
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS equipment_item (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		gear_type TEXT NOT NULL,
		size TEXT NOT NULL,
		initial INTEGER NOT NULL DEFAULT 0,
		issued INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (organization_id) REFERENCES organization(id)
	);

	CREATE TABLE IF NOT EXISTS stamp_inventory (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		stamp_type TEXT NOT NULL,
		initial INTEGER NOT NULL DEFAULT 0,
		issued INTEGER NOT NULL DEFAULT 0,
		returned INTEGER NOT NULL DEFAULT 0,
		archived INTEGER NOT NULL DEFAULT 0,
		archived_at TEXT,
		FOREIGN KEY (organization_id) REFERENCES organization(id)
	);

	CREATE TABLE IF NOT EXISTS message (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		subject TEXT,
		content TEXT NOT NULL,
		read_at TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (receiver_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS audit_event (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		result TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL DEFAULT ''
	);
	`,
	// 2: partial unique index backing the one-open-period-per-member invariant
	`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_period_one_open
		ON membership_period(member_id) WHERE end_date IS NULL;
	CREATE INDEX IF NOT EXISTS idx_period_member ON membership_period(member_id);
	CREATE INDEX IF NOT EXISTS idx_member_status ON member(status);
	CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_event(timestamp);
	`,
}

// LatestSchemaVersion returns the highest migration number.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion reads the current schema version, 0 for a fresh database.
func SchemaVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return version, err
}

// MigrateDB applies pending migrations in order. Safe to run repeatedly.
// PRE: db is a valid database connection
// POST: schema is at LatestSchemaVersion, WAL pragmas assumed set via DSN
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	if current == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", len(migrations))
	} else {
		_, err = db.Exec("UPDATE schema_version SET version = ?", len(migrations))
	}
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}
