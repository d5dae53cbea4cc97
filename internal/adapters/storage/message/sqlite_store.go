package message

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/message"
)

const timestampLayout = time.RFC3339

// SQLiteStore persists messages in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const messageColumns = `id, sender_id, receiver_id, subject, content, read_at, created_at`

func scanMessage(row interface{ Scan(...any) error }) (domain.Message, error) {
	var (
		value     domain.Message
		subject   sql.NullString
		readAt    sql.NullString
		createdAt string
	)
	if err := row.Scan(&value.ID, &value.SenderID, &value.ReceiverID, &subject,
		&value.Content, &readAt, &createdAt); err != nil {
		return domain.Message{}, err
	}
	value.Subject = subject.String
	if readAt.Valid {
		parsed, err := time.Parse(timestampLayout, readAt.String)
		if err != nil {
			return domain.Message{}, fmt.Errorf("parse read_at: %w", err)
		}
		value.ReadAt = parsed
	}
	parsed, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return domain.Message{}, fmt.Errorf("parse created_at: %w", err)
	}
	value.CreatedAt = parsed
	return value, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM message WHERE id = ?`, id)
	value, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return domain.Message{}, fmt.Errorf("message %s not found", id)
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("get message: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, value domain.Message) error {
	var readAt any
	if !value.ReadAt.IsZero() {
		readAt = value.ReadAt.Format(timestampLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message (`+messageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject = excluded.subject,
			content = excluded.content,
			read_at = excluded.read_at`,
		value.ID, value.SenderID, value.ReceiverID, value.Subject, value.Content,
		readAt, value.CreatedAt.Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM message WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM message
		WHERE receiver_id = ?
		ORDER BY created_at DESC`, receiverID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var values []domain.Message
	for rows.Next() {
		value, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func (s *SQLiteStore) CountUnread(ctx context.Context, receiverID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM message WHERE receiver_id = ? AND read_at IS NULL`,
		receiverID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}
