package member

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/member"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

const memberColumns = "id, organization_id, name, lastname, email, role, status, registration_completed, activity_minutes, fee_payment_year, fee_payment_date, card_number, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var completed int
	var feeYear sql.NullInt64
	var feeDate sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.OrganizationID,
		&entity.Name,
		&entity.Lastname,
		&entity.Email,
		&entity.Role,
		&entity.Status,
		&completed,
		&entity.ActivityMinutes,
		&feeYear,
		&feeDate,
		&entity.CardNumber,
		&createdAt,
	)
	if err != nil {
		return domain.Member{}, err
	}
	entity.RegistrationCompleted = completed != 0
	if feeYear.Valid {
		y := int(feeYear.Int64)
		entity.FeePaymentYear = &y
	}
	if feeDate.Valid && feeDate.String != "" {
		d, perr := time.Parse(dateLayout, feeDate.String)
		if perr != nil {
			return domain.Member{}, fmt.Errorf("bad fee_payment_date %q: %w", feeDate.String, perr)
		}
		entity.FeePaymentDate = &d
	}
	if createdAt != "" {
		c, perr := time.Parse(timestampLayout, createdAt)
		if perr != nil {
			return domain.Member{}, fmt.Errorf("bad created_at %q: %w", createdAt, perr)
		}
		entity.CreatedAt = c
	}
	return entity, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	entity, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Member by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE email = ?", email)
	entity, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	var feeYear any
	if entity.FeePaymentYear != nil {
		feeYear = *entity.FeePaymentYear
	}
	var feeDate any
	if entity.FeePaymentDate != nil {
		feeDate = entity.FeePaymentDate.Format(dateLayout)
	}
	completed := 0
	if entity.RegistrationCompleted {
		completed = 1
	}

	query := `INSERT INTO member (` + memberColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			organization_id=excluded.organization_id,
			name=excluded.name,
			lastname=excluded.lastname,
			email=excluded.email,
			role=excluded.role,
			status=excluded.status,
			registration_completed=excluded.registration_completed,
			activity_minutes=excluded.activity_minutes,
			fee_payment_year=excluded.fee_payment_year,
			fee_payment_date=excluded.fee_payment_date,
			card_number=excluded.card_number`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.OrganizationID,
		entity.Name,
		entity.Lastname,
		entity.Email,
		entity.Role,
		entity.Status,
		completed,
		entity.ActivityMinutes,
		feeYear,
		feeDate,
		entity.CardNumber,
		entity.CreatedAt.Format(timestampLayout),
	)
	return err
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	return err
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.OrganizationID != "" {
		where += " AND organization_id = ?"
		args = append(args, filter.OrganizationID)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Role != "" {
		where += " AND role = ?"
		args = append(args, filter.Role)
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? OR lastname LIKE ? OR email LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name": "name", "lastname": "lastname", "email": "email",
		"status": "status", "role": "role",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY lastname ASC, name ASC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of members matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member"+where, args...).Scan(&count)
	return count, err
}

// List retrieves Members based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + memberColumns + " FROM member" + where + sortClause(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// UpdateStatus writes the status cache and registration flag.
// PRE: id is non-empty, status is a valid member status
// POST: Only status and registration_completed are changed
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id, status string, registrationCompleted bool) error {
	completed := 0
	if registrationCompleted {
		completed = 1
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE member SET status = ?, registration_completed = ? WHERE id = ?",
		status, completed, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("member not found: %s", id)
	}
	return nil
}

// SetInactiveAndClosePeriods sets the member inactive and closes the given
// periods in a single transaction.
// PRE: closures reference periods belonging to the member
// POST: status cache and period rows change together or not at all
func (s *SQLiteStore) SetInactiveAndClosePeriods(ctx context.Context, id string, closures []PeriodClosure) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE member SET status = ? WHERE id = ?", domain.StatusInactive, id); err != nil {
		return fmt.Errorf("update member status: %w", err)
	}

	for _, c := range closures {
		res, err := tx.ExecContext(ctx,
			"UPDATE membership_period SET end_date = ?, end_reason = ? WHERE id = ? AND member_id = ? AND end_date IS NULL",
			c.EndDate.Format(dateLayout), c.Reason, c.PeriodID, id)
		if err != nil {
			return fmt.Errorf("close period %s: %w", c.PeriodID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("period %s is not open for member %s", c.PeriodID, id)
		}
	}

	return tx.Commit()
}

// AddActivityMinutes adds recognized minutes to the accumulated total.
// PRE: minutes >= 0
// POST: activity_minutes incremented
func (s *SQLiteStore) AddActivityMinutes(ctx context.Context, id string, minutes int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE member SET activity_minutes = activity_minutes + ? WHERE id = ?", minutes, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("member not found: %s", id)
	}
	return nil
}
