package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// PoolAdapter adapts *pgxpool.Pool to the savemigrate.DBConnection interface.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool    *pgxpool.Pool
	onClose func()
}

// NewPoolAdapter creates a new PoolAdapter wrapping the given pool.
// onClose, if non-nil, runs after the pool is closed (e.g. to release a
// Cloud SQL dialer).
func NewPoolAdapter(pool *pgxpool.Pool, onClose func()) *PoolAdapter {
	return &PoolAdapter{pool: pool, onClose: onClose}
}

func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) savemigrate.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

func (p *PoolAdapter) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

func (p *PoolAdapter) Close() {
	p.pool.Close()
	if p.onClose != nil {
		p.onClose()
	}
}

var _ savemigrate.DBConnection = (*PoolAdapter)(nil)
