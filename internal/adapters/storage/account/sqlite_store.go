package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/account"
)

const timestampLayout = time.RFC3339

// SQLiteStore persists accounts in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const accountColumns = `id, email, password_hash, role, created_at, failed_logins, locked_until`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		value       domain.Account
		createdAt   string
		lockedUntil sql.NullString
	)
	if err := row.Scan(&value.ID, &value.Email, &value.PasswordHash, &value.Role,
		&createdAt, &value.FailedLogins, &lockedUntil); err != nil {
		return domain.Account{}, err
	}
	parsed, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return domain.Account{}, fmt.Errorf("parse created_at: %w", err)
	}
	value.CreatedAt = parsed
	if lockedUntil.Valid && lockedUntil.String != "" {
		parsed, err := time.Parse(timestampLayout, lockedUntil.String)
		if err != nil {
			return domain.Account{}, fmt.Errorf("parse locked_until: %w", err)
		}
		value.LockedUntil = parsed
	}
	return value, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE id = ?`, id)
	value, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE email = ?`, email)
	value, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, value domain.Account) error {
	var lockedUntil any
	if !value.LockedUntil.IsZero() {
		lockedUntil = value.LockedUntil.Format(timestampLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash,
			role = excluded.role,
			failed_logins = excluded.failed_logins,
			locked_until = excluded.locked_until`,
		value.ID, value.Email, value.PasswordHash, value.Role,
		value.CreatedAt.Format(timestampLayout), value.FailedLogins, lockedUntil)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}
