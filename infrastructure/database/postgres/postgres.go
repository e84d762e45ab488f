package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/vfg2006/sales-sync-api/internal/config"
)

const (
	defaultMaxOpenConns    = 20
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
)

type Conn interface {
	Queryer
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, func(*sql.Tx) error) error
}

// Connection é o pool compartilhado pelos repositórios
type Connection struct {
	*sql.DB
}

var _ Conn = (*Connection)(nil)

func NewConnection(ctx context.Context, cfg config.Database) (*Connection, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão: %w", err)
	}

	// Cada conta sincronizando segura uma conexão durante os upserts em lote,
	// então o pool acompanha SYNC_MAX_CONCURRENT_JOBS com folga para o dashboard
	db.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, defaultMaxOpenConns))
	db.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, defaultMaxIdleConns))
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao testar conexão: %w", err)
	}

	return &Connection{DB: db}, nil
}

// NewFromDB envolve um *sql.DB já aberto
func NewFromDB(db *sql.DB) *Connection {
	return &Connection{DB: db}
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// RunInTransaction executa fn dentro de uma transação. Erro ou panic em fn
// desfazem tudo.
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("erro ao desfazer transação (%v): %w", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
