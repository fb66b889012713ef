package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/ncobase/cargohold/data/config"
	"github.com/ncobase/cargohold/logging/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type ContextKey string

const (
	ContextKeyTransaction ContextKey = "tx"
)

// Data owns the process' backing connections: the relational database, and
// optionally redis and RabbitMQ.
type Data struct {
	DB      *sql.DB
	Dialect Dialect
	Redis   *redis.Client
	AMQP    *amqp.Connection

	dbDriver    DatabaseDriver
	cacheDriver CacheDriver
	mqDriver    MessageDriver
	logger      *logger.Logger

	mu     sync.RWMutex
	closed bool
}

// New connects every configured backend through the registered drivers.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Data, func(), error) {
	if cfg == nil || cfg.Database == nil {
		return nil, nil, errors.New("data: database configuration is required")
	}

	drv, err := GetDatabaseDriver(cfg.Database.Driver)
	if err != nil {
		return nil, nil, err
	}
	conn, err := drv.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	db, err := AsSQL(conn)
	if err != nil {
		_ = drv.Close(conn)
		return nil, nil, fmt.Errorf("driver %s: %w", drv.Name(), err)
	}

	d := &Data{DB: db, Dialect: drv.Dialect(), dbDriver: drv, logger: log}

	if cfg.Database.Migrate {
		if err := Migrate(ctx, db, d.Dialect); err != nil {
			_ = d.Close()
			return nil, nil, err
		}
		log.Info(ctx, "database schema migrated", "dialect", d.Dialect)
	}

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		if err := d.connectRedis(ctx, cfg.Redis); err != nil {
			log.Warn(ctx, "redis unavailable, continuing without cache", "addr", cfg.Redis.Addr, "error", err)
		}
	}

	if cfg.RabbitMQ != nil && cfg.RabbitMQ.URL != "" {
		if err := d.connectRabbitMQ(ctx, cfg.RabbitMQ); err != nil {
			log.Warn(ctx, "rabbitmq unavailable, events disabled", "error", err)
		}
	}

	cleanup := func() {
		if err := d.Close(); err != nil {
			log.Error(context.Background(), "failed to close data layer", "error", err)
		}
	}
	return d, cleanup, nil
}

// NewWithDB wraps an already opened database. Used by tools and tests.
func NewWithDB(db *sql.DB, dialect Dialect) *Data {
	return &Data{DB: db, Dialect: dialect, logger: logger.NewNop()}
}

func (d *Data) connectRedis(ctx context.Context, cfg *config.Redis) error {
	drv, err := GetCacheDriver("redis")
	if err != nil {
		return err
	}
	conn, err := drv.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	client, ok := conn.(*redis.Client)
	if !ok {
		_ = drv.Close(conn)
		return fmt.Errorf("data: redis driver returned %T", conn)
	}
	d.Redis, d.cacheDriver = client, drv
	return nil
}

func (d *Data) connectRabbitMQ(ctx context.Context, cfg *config.RabbitMQ) error {
	drv, err := GetMessageDriver("rabbitmq")
	if err != nil {
		return err
	}
	conn, err := drv.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	amqpConn, ok := conn.(*amqp.Connection)
	if !ok {
		_ = drv.Close(conn)
		return fmt.Errorf("data: rabbitmq driver returned %T", conn)
	}
	d.AMQP, d.mqDriver = amqpConn, drv
	return nil
}

// Executor is satisfied by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor returns the transaction bound to ctx, or the database.
func (d *Data) Executor(ctx context.Context) Executor {
	if tx, err := GetTx(ctx); err == nil {
		return tx
	}
	return d.DB
}

// Rebind rewrites '?' placeholders for the connected dialect.
func (d *Data) Rebind(query string) string {
	return d.Dialect.Rebind(query)
}

// Close closes every connection owned by d.
func (d *Data) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.AMQP != nil && d.mqDriver != nil {
		errs = append(errs, d.mqDriver.Close(d.AMQP))
	}
	if d.Redis != nil && d.cacheDriver != nil {
		errs = append(errs, d.cacheDriver.Close(d.Redis))
	}
	if d.DB != nil {
		if d.dbDriver != nil {
			errs = append(errs, d.dbDriver.Close(d.DB))
		} else {
			errs = append(errs, d.DB.Close())
		}
	}
	return errors.Join(errs...)
}
