// Package postgres implements the repository against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/config"

	"github.com/cenkalti/backoff"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Postgres wraps a pgx pool and configuration.
type Postgres struct {
	baseCtx context.Context
	log     *zap.SugaredLogger
	db      *pgxpool.Pool
	cfg     config.PostgresConfig
	now     func() time.Time
}

// New creates a Postgres repository instance.
func New(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config) *Postgres {
	return &Postgres{
		baseCtx: ctx,
		log:     log.Named("repo.postgres"),
		cfg:     cfg.Postgres,
		now:     time.Now,
	}
}

// OnStart establishes connection pool, retrying until connect_timeout, and applies migrations.
func (p *Postgres) OnStart(_ context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(p.cfg.DSN())
	if err != nil {
		return fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = p.cfg.MaxConns
	poolCfg.MinConns = p.cfg.MinConns

	var pool *pgxpool.Pool
	connect := func() error {
		ctx, cancel := context.WithTimeout(p.baseCtx, p.cfg.QueryTimeout)
		defer cancel()

		candidate, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("open pool: %w", err))
		}
		if err := candidate.Ping(ctx); err != nil {
			candidate.Close()
			p.log.Warnw("postgres not ready", "error", err)
			return fmt.Errorf("ping pool: %w", err)
		}
		pool = candidate
		return nil
	}
	if err := backoff.Retry(connect, backoff.WithContext(p.connectBackoff(), p.baseCtx)); err != nil {
		return err
	}

	if err := Migrate(p.baseCtx, p.cfg); err != nil {
		pool.Close()
		return err
	}

	p.db = pool
	p.log.Infow("postgres ready", "host", p.cfg.Host, "port", p.cfg.Port)
	return nil
}

// OnStop closes pool connections.
func (p *Postgres) OnStop(_ context.Context) error {
	if p.db != nil {
		p.db.Close()
	}
	return nil
}

func (p *Postgres) connectBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.cfg.ConnectTimeout
	return b
}

// Migrate applies pending goose migrations from cfg.MigrationsDir.
func Migrate(ctx context.Context, cfg config.PostgresConfig) error {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open sql: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	migrateCtx, cancel := context.WithTimeout(ctx, cfg.MigrateTimeout)
	defer cancel()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate dialect: %w", err)
	}
	if err := goose.UpContext(migrateCtx, sqlDB, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if _, err := goose.EnsureDBVersionContext(migrateCtx, sqlDB); err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	return nil
}
