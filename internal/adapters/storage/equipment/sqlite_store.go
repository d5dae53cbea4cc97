package equipment

import (
	"context"
	"database/sql"
	"fmt"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/equipment"
)

// SQLiteStore persists equipment items in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const itemColumns = `id, organization_id, gear_type, size, initial, issued`

func scanItem(row interface{ Scan(...any) error }) (domain.Item, error) {
	var value domain.Item
	if err := row.Scan(&value.ID, &value.OrganizationID, &value.GearType, &value.Size,
		&value.Initial, &value.Issued); err != nil {
		return domain.Item{}, err
	}
	return value, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM equipment_item WHERE id = ?`, id)
	value, err := scanItem(row)
	if err == sql.ErrNoRows {
		return domain.Item{}, fmt.Errorf("equipment item %s not found", id)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("get equipment item: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, value domain.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO equipment_item (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			gear_type = excluded.gear_type,
			size = excluded.size,
			initial = excluded.initial,
			issued = excluded.issued`,
		value.ID, value.OrganizationID, value.GearType, value.Size, value.Initial, value.Issued)
	if err != nil {
		return fmt.Errorf("save equipment item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM equipment_item WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete equipment item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, organizationID string) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM equipment_item
		WHERE organization_id = ?
		ORDER BY gear_type, size`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list equipment items: %w", err)
	}
	defer rows.Close()

	var values []domain.Item
	for rows.Next() {
		value, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment item: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
