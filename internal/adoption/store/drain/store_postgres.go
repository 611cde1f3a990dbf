package drain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"drainadopt/internal/adoption/models"
	"drainadopt/internal/platform/postgres"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
	txcontext "drainadopt/pkg/platform/tx"
)

// PostgresStore persists drains in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed drain store.
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

const drainColumns = `id, name, image_url, latitude, longitude, adopted_by_user_id, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, d *models.Drain) error {
	query := `INSERT INTO drains (` + drainColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(d.ID), d.Name, d.ImageURL, d.Latitude, d.Longitude,
		nullableUserID(d.AdoptedByUserID), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert drain: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, drainID id.DrainID) (*models.Drain, error) {
	query := `SELECT ` + drainColumns + ` FROM drains WHERE id = $1`
	return scanDrain(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(drainID)))
}

// FindByIDForUpdate locks the row for the rest of the surrounding transaction.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, drainID id.DrainID) (*models.Drain, error) {
	query := `SELECT ` + drainColumns + ` FROM drains WHERE id = $1 FOR UPDATE`
	return scanDrain(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(drainID)))
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Drain, error) {
	query := `SELECT ` + drainColumns + ` FROM drains ORDER BY created_at, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drains: %w", err)
	}
	defer rows.Close()

	var out []*models.Drain
	for rows.Next() {
		d, err := scanDrain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drains: %w", err)
	}
	return out, nil
}

// UpdateDetails writes the descriptive fields; the adoption link is untouched.
func (s *PostgresStore) UpdateDetails(ctx context.Context, d *models.Drain) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE drains SET name = $2, image_url = $3, latitude = $4, longitude = $5, updated_at = $6
		WHERE id = $1`,
		uuid.UUID(d.ID), d.Name, d.ImageURL, d.Latitude, d.Longitude, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update drain: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, drainID id.DrainID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM drains WHERE id = $1`, uuid.UUID(drainID))
	if err != nil {
		return fmt.Errorf("delete drain: %w", err)
	}
	return requireRow(res)
}

// SetAdopter links the drain to userID only if the drain has no adopter.
func (s *PostgresStore) SetAdopter(ctx context.Context, drainID id.DrainID, userID id.UserID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE drains SET adopted_by_user_id = $2 WHERE id = $1 AND adopted_by_user_id IS NULL`,
		uuid.UUID(drainID), uuid.UUID(userID),
	)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("set drain adopter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set drain adopter: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := s.FindByID(ctx, drainID); err != nil {
		return err
	}
	return sentinel.ErrConflict
}

// ClearAdopter removes the link if it still points at userID.
func (s *PostgresStore) ClearAdopter(ctx context.Context, drainID id.DrainID, userID id.UserID) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE drains SET adopted_by_user_id = NULL WHERE id = $1 AND adopted_by_user_id = $2`,
		uuid.UUID(drainID), uuid.UUID(userID),
	)
	if err != nil {
		return fmt.Errorf("clear drain adopter: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrain(row rowScanner) (*models.Drain, error) {
	var (
		d       models.Drain
		drainID uuid.UUID
		adopter uuid.NullUUID
	)
	err := row.Scan(&drainID, &d.Name, &d.ImageURL, &d.Latitude, &d.Longitude, &adopter, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan drain: %w", err)
	}
	d.ID = id.DrainID(drainID)
	if adopter.Valid {
		u := id.UserID(adopter.UUID)
		d.AdoptedByUserID = &u
	}
	return &d, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullableUserID(u *id.UserID) any {
	if u == nil {
		return nil
	}
	return uuid.UUID(*u)
}
