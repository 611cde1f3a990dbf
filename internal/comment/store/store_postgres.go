package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"drainadopt/internal/comment/models"
	"drainadopt/internal/platform/postgres"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
	txcontext "drainadopt/pkg/platform/tx"
)

// PostgresStore persists comments in Postgres.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Comment) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO comments (id, drain_id, user_id, text, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(c.ID), uuid.UUID(c.DrainID), uuid.UUID(c.UserID), c.Text, c.ImageURL, c.CreatedAt,
	)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListByDrain returns the drain's comments newest first.
func (s *PostgresStore) ListByDrain(ctx context.Context, drainID id.DrainID) ([]*models.Comment, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, drain_id, user_id, text, image_url, created_at
		FROM comments
		WHERE drain_id = $1
		ORDER BY created_at DESC, id`,
		uuid.UUID(drainID),
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		var (
			c        models.Comment
			cID      uuid.UUID
			dID      uuid.UUID
			authorID uuid.UUID
		)
		if err := rows.Scan(&cID, &dID, &authorID, &c.Text, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.ID = id.CommentID(cID)
		c.DrainID = id.DrainID(dID)
		c.UserID = id.UserID(authorID)
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}
