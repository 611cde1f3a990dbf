package main

import (
	"context"
	"database/sql"
	"errors"

	adoptionservice "drainadopt/internal/adoption/service"
	drainstore "drainadopt/internal/adoption/store/drain"
	"drainadopt/internal/authz"
	commentservice "drainadopt/internal/comment/service"
	commentstore "drainadopt/internal/comment/store"
	identityservice "drainadopt/internal/identity/service"
	userstore "drainadopt/internal/identity/store/user"
	"drainadopt/internal/notification/outbox"
	notificationservice "drainadopt/internal/notification/service"
	notificationstore "drainadopt/internal/notification/store"
	"drainadopt/internal/platform/config"
	"drainadopt/internal/platform/postgres"
	"drainadopt/pkg/platform/tx"
)

type userStore interface {
	identityservice.UserStore
	authz.UserStore
	adoptionservice.UserStore
}

type outboxStore interface {
	notificationservice.Outbox
	outbox.Store
}

type storeTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// stores is one coherent backend: every store shares the same transaction
// runner so cross-module units of work stay atomic.
type stores struct {
	db            *sql.DB
	tx            storeTx
	users         userStore
	drains        adoptionservice.DrainStore
	notifications notificationservice.Store
	comments      commentservice.CommentStore
	outbox        outboxStore
}

// openStores selects Postgres when a database URL is configured and the
// in-memory stores otherwise.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.Postgres.URL == "" {
		return &stores{
			tx:            tx.NewMemoryRunner(),
			users:         userstore.New(),
			drains:        drainstore.New(),
			notifications: notificationstore.NewMemory(),
			comments:      commentstore.NewMemory(),
			outbox:        outbox.NewMemory(),
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	return &stores{
		db:            db,
		tx:            postgres.NewTxRunner(db, cfg.Postgres.TxTimeout),
		users:         userstore.NewPostgres(db),
		drains:        drainstore.NewPostgres(db),
		notifications: notificationstore.NewPostgres(db),
		comments:      commentstore.NewPostgres(db),
		outbox:        outbox.NewPostgres(db),
	}, nil
}

func (s *stores) close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func postgresSchema() string {
	return postgres.Schema()
}

func applySchema(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return errors.New("schema --apply needs --database-url or DATABASE_URL")
	}
	pgCfg := cfg.Postgres
	pgCfg.ApplySchema = false
	db, err := postgres.Open(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return postgres.ApplySchema(ctx, db)
}
