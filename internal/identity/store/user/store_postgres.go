package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"drainadopt/internal/identity/models"
	"drainadopt/internal/platform/postgres"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
	txcontext "drainadopt/pkg/platform/tx"
)

// adminBootstrapLockKey serializes first-admin creation across connections.
const adminBootstrapLockKey = 7_340_001

// PostgresStore persists users in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed user store.
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

const userColumns = `id, name, email, password_hash, role, adopted_drain_id, created_at`

func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	return insertUser(ctx, s.execer(ctx), u)
}

func insertUser(ctx context.Context, exec dbExecutor, u *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := exec.ExecContext(ctx, query,
		uuid.UUID(u.ID), u.Name, normalizeEmail(u.Email), u.PasswordHash, string(u.Role),
		nullableDrainID(u.AdoptedDrainID), u.CreatedAt,
	)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// CreateIfNoAdmin inserts u only while no ADMIN exists. An advisory
// transaction lock makes the existence check and insert atomic.
func (s *PostgresStore) CreateIfNoAdmin(ctx context.Context, u *models.User) error {
	if tx, ok := txcontext.From(ctx); ok {
		return createIfNoAdmin(ctx, tx, u)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admin bootstrap: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := createIfNoAdmin(ctx, tx, u); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit admin bootstrap: %w", err)
	}
	return nil
}

func createIfNoAdmin(ctx context.Context, exec dbExecutor, u *models.User) error {
	if _, err := exec.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, adminBootstrapLockKey); err != nil {
		return fmt.Errorf("acquire admin bootstrap lock: %w", err)
	}
	exists, err := adminExists(ctx, exec)
	if err != nil {
		return err
	}
	if exists {
		return sentinel.ErrInvalidState
	}
	return insertUser(ctx, exec, u)
}

// AdminExists uses the role index; it never scans the table.
func (s *PostgresStore) AdminExists(ctx context.Context) (bool, error) {
	return adminExists(ctx, s.execer(ctx))
}

func adminExists(ctx context.Context, exec dbExecutor) (bool, error) {
	var exists bool
	err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE role = 'ADMIN')`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(userID)))
}

// FindByIDForUpdate locks the row for the rest of the surrounding transaction.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(userID)))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.execer(ctx).QueryRowContext(ctx, query, normalizeEmail(email)))
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateRole(ctx context.Context, userID id.UserID, role models.Role) error {
	res, err := s.execer(ctx).ExecContext(ctx, `UPDATE users SET role = $2 WHERE id = $1`, uuid.UUID(userID), string(role))
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return requireRow(res)
}

// SetAdoptedDrain links the user to drainID only if the user has no drain.
func (s *PostgresStore) SetAdoptedDrain(ctx context.Context, userID id.UserID, drainID id.DrainID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE users SET adopted_drain_id = $2 WHERE id = $1 AND adopted_drain_id IS NULL`,
		uuid.UUID(userID), uuid.UUID(drainID),
	)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("set adopted drain: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set adopted drain: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := s.FindByID(ctx, userID); err != nil {
		return err
	}
	return sentinel.ErrConflict
}

// ClearAdoptedDrain removes the link if it still points at drainID.
func (s *PostgresStore) ClearAdoptedDrain(ctx context.Context, userID id.UserID, drainID id.DrainID) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE users SET adopted_drain_id = NULL WHERE id = $1 AND adopted_drain_id = $2`,
		uuid.UUID(userID), uuid.UUID(drainID),
	)
	if err != nil {
		return fmt.Errorf("clear adopted drain: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u       models.User
		userID  uuid.UUID
		role    string
		adopted uuid.NullUUID
	)
	err := row.Scan(&userID, &u.Name, &u.Email, &u.PasswordHash, &role, &adopted, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.UserID(userID)
	u.Role = models.Role(role)
	if adopted.Valid {
		d := id.DrainID(adopted.UUID)
		u.AdoptedDrainID = &d
	}
	return &u, nil
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

func nullableDrainID(d *id.DrainID) any {
	if d == nil {
		return nil
	}
	return uuid.UUID(*d)
}
