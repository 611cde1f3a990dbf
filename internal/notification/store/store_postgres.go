package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"drainadopt/internal/notification/models"
	"drainadopt/internal/platform/postgres"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
	txcontext "drainadopt/pkg/platform/tx"
)

// PostgresStore persists notifications in Postgres. Rows are ordered by
// (created_at, seq) so ties keep insertion order.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed notification store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const notificationColumns = `id, type, message, drain_id, user_id, read, created_at`

func (s *PostgresStore) Append(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (` + notificationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var userID any
	if n.UserID != nil {
		userID = uuid.UUID(*n.UserID)
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(n.ID), string(n.Type), n.Message, uuid.UUID(n.DrainID), userID, n.Read, n.CreatedAt,
	)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns all notifications newest first.
func (s *PostgresStore) List(ctx context.Context) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications ORDER BY created_at DESC, seq DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE read = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 RETURNING ` + notificationColumns
	return scanNotification(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(notificationID)))
}

// MarkAllRead returns how many notifications changed.
func (s *PostgresStore) MarkAllRead(ctx context.Context) (int64, error) {
	res, err := s.execer(ctx).ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE read = FALSE`)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// LatestCreatedAt returns the newest timestamp, or zero when empty.
func (s *PostgresStore) LatestCreatedAt(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT MAX(created_at) FROM notifications`).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("latest notification time: %w", err)
	}
	return latest.Time, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n       models.Notification
		nID     uuid.UUID
		typ     string
		drainID uuid.UUID
		userID  uuid.NullUUID
	)
	if err := row.Scan(&nID, &typ, &n.Message, &drainID, &userID, &n.Read, &n.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	n.ID = id.NotificationID(nID)
	n.Type = models.Type(typ)
	n.DrainID = id.DrainID(drainID)
	if userID.Valid {
		u := id.UserID(userID.UUID)
		n.UserID = &u
	}
	return &n, nil
}
