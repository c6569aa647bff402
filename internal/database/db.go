package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConnected is returned by Status before Connect succeeds
var ErrNotConnected = errors.New("database not connected")

// PoolOptions sizes the shared connection pool
type PoolOptions struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	// ApplicationName is reported to Postgres in pg_stat_activity
	ApplicationName string
}

var (
	pool   *pgxpool.Pool
	poolMu sync.RWMutex
)

// Connect opens the shared pool. Calling it again while connected is a no-op.
func Connect(ctx context.Context, connString string, opts PoolOptions) error {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		return nil
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("failed to parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		config.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnLifetime > 0 {
		config.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.ApplicationName != "" {
		config.ConnConfig.RuntimeParams["application_name"] = opts.ApplicationName
	}
	config.HealthCheckPeriod = time.Minute

	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return fmt.Errorf("failed to reach database: %w", err)
	}
	pool = p
	return nil
}

// Open connects, applies migrations and returns a catalog store on the
// shared pool
func Open(ctx context.Context, connString string, opts PoolOptions) (*CatalogStore, error) {
	if err := Connect(ctx, connString, opts); err != nil {
		return nil, err
	}
	if err := Migrate(ctx, Pool()); err != nil {
		return nil, err
	}
	return NewCatalogStore(Pool()), nil
}

// Close releases the shared pool
func Close() {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
}

// Pool returns the shared pool, or nil when not connected
func Pool() *pgxpool.Pool {
	poolMu.RLock()
	defer poolMu.RUnlock()
	return pool
}

// Status pings the database
func Status(ctx context.Context) error {
	p := Pool()
	if p == nil {
		return ErrNotConnected
	}
	return p.Ping(ctx)
}

// PoolStats is a snapshot of pool usage
type PoolStats struct {
	Total    int32 `json:"total"`
	Idle     int32 `json:"idle"`
	Acquired int32 `json:"acquired"`
	Max      int32 `json:"max"`
}

// Stats returns pool usage, or nil when not connected
func Stats() *PoolStats {
	p := Pool()
	if p == nil {
		return nil
	}
	s := p.Stat()
	return &PoolStats{
		Total:    s.TotalConns(),
		Idle:     s.IdleConns(),
		Acquired: s.AcquiredConns(),
		Max:      s.MaxConns(),
	}
}
