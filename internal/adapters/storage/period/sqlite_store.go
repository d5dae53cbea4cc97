package period

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhouse/internal/adapters/storage"
	"clubhouse/internal/domain/membership"
)

const dateLayout = "2006-01-02"

const periodColumns = "id, member_id, start_date, end_date, end_reason"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new membership period store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanPeriod(scan func(dest ...any) error) (membership.Period, error) {
	var entity membership.Period
	var startDate string
	var endDate, endReason sql.NullString
	if err := scan(&entity.ID, &entity.MemberID, &startDate, &endDate, &endReason); err != nil {
		return membership.Period{}, err
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return membership.Period{}, fmt.Errorf("bad start_date %q: %w", startDate, err)
	}
	entity.StartDate = start
	if endDate.Valid && endDate.String != "" {
		end, err := time.Parse(dateLayout, endDate.String)
		if err != nil {
			return membership.Period{}, fmt.Errorf("bad end_date %q: %w", endDate.String, err)
		}
		entity.EndDate = &end
	}
	if endReason.Valid {
		entity.EndReason = endReason.String
	}
	return entity, nil
}

// GetByID retrieves a Period by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (membership.Period, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+periodColumns+" FROM membership_period WHERE id = ?", id)
	entity, err := scanPeriod(row.Scan)
	if err == sql.ErrNoRows {
		return membership.Period{}, fmt.Errorf("period not found: %w", err)
	}
	return entity, err
}

// Save persists a Period to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity membership.Period) error {
	var endDate, endReason any
	if entity.EndDate != nil {
		endDate = entity.EndDate.Format(dateLayout)
	}
	if entity.EndReason != "" {
		endReason = entity.EndReason
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO membership_period (`+periodColumns+`) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id,
			start_date=excluded.start_date,
			end_date=excluded.end_date,
			end_reason=excluded.end_reason`,
		entity.ID,
		entity.MemberID,
		entity.StartDate.Format(dateLayout),
		endDate,
		endReason,
	)
	return err
}

// ListByMemberID returns all periods for a member ordered by start date.
// PRE: memberID is non-empty
// POST: Returns the member's full period history, oldest first
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]membership.Period, error) {
	return s.list(ctx, "SELECT "+periodColumns+" FROM membership_period WHERE member_id = ? ORDER BY start_date ASC", memberID)
}

// ListOpenByMemberID returns the member's open periods. The schema enforces
// at most one; a longer result signals a data-integrity fault.
// PRE: memberID is non-empty
// POST: Returns open periods, oldest first
func (s *SQLiteStore) ListOpenByMemberID(ctx context.Context, memberID string) ([]membership.Period, error) {
	return s.list(ctx, "SELECT "+periodColumns+" FROM membership_period WHERE member_id = ? AND end_date IS NULL ORDER BY start_date ASC", memberID)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]membership.Period, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []membership.Period
	for rows.Next() {
		entity, err := scanPeriod(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
