package stamp

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/stamp"
)

const timestampLayout = time.RFC3339

// SQLiteStore persists stamp inventories in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const inventoryColumns = `id, organization_id, year, stamp_type, initial, issued, returned, archived, archived_at`

func scanInventory(row interface{ Scan(...any) error }) (domain.Inventory, error) {
	var (
		value      domain.Inventory
		archived   int
		archivedAt sql.NullString
	)
	if err := row.Scan(&value.ID, &value.OrganizationID, &value.Year, &value.StampType,
		&value.Initial, &value.Issued, &value.Returned, &archived, &archivedAt); err != nil {
		return domain.Inventory{}, err
	}
	value.Archived = archived != 0
	if archivedAt.Valid {
		parsed, err := time.Parse(timestampLayout, archivedAt.String)
		if err != nil {
			return domain.Inventory{}, fmt.Errorf("parse archived_at: %w", err)
		}
		value.ArchivedAt = &parsed
	}
	return value, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Inventory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM stamp_inventory WHERE id = ?`, id)
	value, err := scanInventory(row)
	if err == sql.ErrNoRows {
		return domain.Inventory{}, fmt.Errorf("stamp inventory %s not found", id)
	}
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("get stamp inventory: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, value domain.Inventory) error {
	archived := 0
	if value.Archived {
		archived = 1
	}
	var archivedAt any
	if value.ArchivedAt != nil {
		archivedAt = value.ArchivedAt.Format(timestampLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stamp_inventory (`+inventoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			initial = excluded.initial,
			issued = excluded.issued,
			returned = excluded.returned,
			archived = excluded.archived,
			archived_at = excluded.archived_at`,
		value.ID, value.OrganizationID, value.Year, value.StampType,
		value.Initial, value.Issued, value.Returned, archived, archivedAt)
	if err != nil {
		return fmt.Errorf("save stamp inventory: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, organizationID string) ([]domain.Inventory, error) {
	return s.list(ctx, `
		SELECT `+inventoryColumns+` FROM stamp_inventory
		WHERE organization_id = ?
		ORDER BY year DESC, stamp_type`, organizationID)
}

func (s *SQLiteStore) ListUnarchivedBefore(ctx context.Context, year int) ([]domain.Inventory, error) {
	return s.list(ctx, `
		SELECT `+inventoryColumns+` FROM stamp_inventory
		WHERE archived = 0 AND year < ?
		ORDER BY year, stamp_type`, year)
}

func (s *SQLiteStore) list(ctx context.Context, query string, arg any) ([]domain.Inventory, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stamp inventories: %w", err)
	}
	defer rows.Close()

	var values []domain.Inventory
	for rows.Next() {
		value, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stamp inventory: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
