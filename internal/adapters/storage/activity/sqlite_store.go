package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/activity"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

// SQLiteStore persists activities and participations in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const activityColumns = `id, organization_id, title, description, date, status, recognized_minutes, created_by, created_at`

func scanActivity(row interface{ Scan(...any) error }) (domain.Activity, error) {
	var (
		value           domain.Activity
		date, createdAt string
	)
	if err := row.Scan(&value.ID, &value.OrganizationID, &value.Title, &value.Description,
		&date, &value.Status, &value.RecognizedMinutes, &value.CreatedBy, &createdAt); err != nil {
		return domain.Activity{}, err
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("parse date: %w", err)
	}
	value.Date = parsed
	parsed, err = time.Parse(timestampLayout, createdAt)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("parse created_at: %w", err)
	}
	value.CreatedAt = parsed
	return value, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Activity, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activity WHERE id = ?`, id)
	value, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return domain.Activity{}, fmt.Errorf("activity %s not found", id)
	}
	if err != nil {
		return domain.Activity{}, fmt.Errorf("get activity: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, value domain.Activity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			date = excluded.date,
			status = excluded.status,
			recognized_minutes = excluded.recognized_minutes`,
		value.ID, value.OrganizationID, value.Title, value.Description,
		value.Date.Format(dateLayout), value.Status, value.RecognizedMinutes,
		value.CreatedBy, value.CreatedAt.Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM activity WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, organizationID string) ([]domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+activityColumns+` FROM activity
		WHERE organization_id = ?
		ORDER BY date DESC`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var values []domain.Activity
	for rows.Next() {
		value, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

const participationColumns = `id, activity_id, member_id, minutes, created_at`

func scanParticipation(row interface{ Scan(...any) error }) (domain.Participation, error) {
	var (
		value     domain.Participation
		createdAt string
	)
	if err := row.Scan(&value.ID, &value.ActivityID, &value.MemberID, &value.Minutes, &createdAt); err != nil {
		return domain.Participation{}, err
	}
	parsed, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("parse created_at: %w", err)
	}
	value.CreatedAt = parsed
	return value, nil
}

func (s *SQLiteStore) SaveParticipation(ctx context.Context, value domain.Participation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participation (`+participationColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			minutes = excluded.minutes`,
		value.ID, value.ActivityID, value.MemberID, value.Minutes,
		value.CreatedAt.Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("save participation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListParticipations(ctx context.Context, activityID string) ([]domain.Participation, error) {
	return s.listParticipations(ctx, `activity_id`, activityID)
}

func (s *SQLiteStore) ListParticipationsByMember(ctx context.Context, memberID string) ([]domain.Participation, error) {
	return s.listParticipations(ctx, `member_id`, memberID)
}

func (s *SQLiteStore) listParticipations(ctx context.Context, column, id string) ([]domain.Participation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+participationColumns+` FROM participation
		WHERE `+column+` = ?
		ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	defer rows.Close()

	var values []domain.Participation
	for rows.Next() {
		value, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
