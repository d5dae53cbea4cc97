package settings

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/settings"
)

const timestampLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new renewal settings store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByOrganizationID retrieves settings, falling back to defaults when the
// organization has none stored. Missing settings are a configuration gap,
// not an error.
// PRE: organizationID is non-empty
// POST: Returns stored or default settings
func (s *SQLiteStore) GetByOrganizationID(ctx context.Context, organizationID string) (domain.RenewalSettings, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT organization_id, renewal_start_month, renewal_start_day, activity_hours_threshold, updated_at FROM renewal_settings WHERE organization_id = ?",
		organizationID)

	var entity domain.RenewalSettings
	var month int
	var updatedAt string
	err := row.Scan(&entity.OrganizationID, &month, &entity.RenewalStartDay, &entity.ActivityHoursThreshold, &updatedAt)
	if err == sql.ErrNoRows {
		return domain.Default(organizationID), nil
	}
	if err != nil {
		return domain.RenewalSettings{}, err
	}
	entity.RenewalStartMonth = time.Month(month)
	if t, perr := time.Parse(timestampLayout, updatedAt); perr == nil {
		entity.UpdatedAt = t
	}
	return entity, nil
}

// Save persists settings for an organization.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.RenewalSettings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renewal_settings (organization_id, renewal_start_month, renewal_start_day, activity_hours_threshold, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(organization_id) DO UPDATE SET
			renewal_start_month=excluded.renewal_start_month,
			renewal_start_day=excluded.renewal_start_day,
			activity_hours_threshold=excluded.activity_hours_threshold,
			updated_at=excluded.updated_at`,
		entity.OrganizationID,
		int(entity.RenewalStartMonth),
		entity.RenewalStartDay,
		entity.ActivityHoursThreshold,
		entity.UpdatedAt.Format(timestampLayout),
	)
	return err
}
