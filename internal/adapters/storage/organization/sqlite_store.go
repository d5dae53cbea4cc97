package organization

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/organization"
)

const timestampLayout = time.RFC3339

// SQLiteStore persists organizations in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const organizationColumns = `id, name, city, email, active, created_at`

func scanOrganization(row interface{ Scan(...any) error }) (domain.Organization, error) {
	var (
		value     domain.Organization
		active    int
		createdAt string
	)
	if err := row.Scan(&value.ID, &value.Name, &value.City, &value.Email, &active, &createdAt); err != nil {
		return domain.Organization{}, err
	}
	value.Active = active != 0
	parsed, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("parse created_at: %w", err)
	}
	value.CreatedAt = parsed
	return value, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Organization, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+organizationColumns+` FROM organization WHERE id = ?`, id)
	value, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return domain.Organization{}, fmt.Errorf("organization %s not found", id)
	}
	if err != nil {
		return domain.Organization{}, fmt.Errorf("get organization: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, value domain.Organization) error {
	active := 0
	if value.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organization (`+organizationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			city = excluded.city,
			email = excluded.email,
			active = excluded.active`,
		value.ID, value.Name, value.City, value.Email, active,
		value.CreatedAt.Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("save organization: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM organization WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Organization, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+organizationColumns+` FROM organization ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var values []domain.Organization
	for rows.Next() {
		value, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
