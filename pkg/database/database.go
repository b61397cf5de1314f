package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Options struct {
	Driver          string
	DataSource      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
}

type Option func(*Options)

func WithDriver(driver string) Option {
	return func(o *Options) { o.Driver = driver }
}

func WithDataSource(dsn string) Option {
	return func(o *Options) { o.DataSource = dsn }
}

func WithMaxOpenConns(count int) Option {
	return func(o *Options) { o.MaxOpenConns = count }
}

func WithMaxIdleConns(count int) Option {
	return func(o *Options) { o.MaxIdleConns = count }
}

func WithConnMaxLifetime(duration time.Duration) Option {
	return func(o *Options) { o.ConnMaxLifetime = duration }
}

func WithConnMaxIdleTime(duration time.Duration) Option {
	return func(o *Options) { o.ConnMaxIdleTime = duration }
}

func WithRetry(attempts int, delay time.Duration) Option {
	return func(o *Options) {
		o.RetryAttempts = attempts
		o.RetryDelay = delay
	}
}

// New creates a new database connection pool using the provided options.
// Opening and pinging is retried with exponential backoff.
func New(opts ...Option) (*sql.DB, error) {
	options := &Options{
		Driver:          "sqlite3",
		DataSource:      ":memory:",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.Driver == "" {
		return nil, fmt.Errorf("database driver cannot be empty")
	}
	if options.DataSource == "" {
		return nil, fmt.Errorf("database data source cannot be empty")
	}
	if options.RetryAttempts < 1 {
		options.RetryAttempts = 1
	}

	connect := func() (*sql.DB, error) {
		db, err := sql.Open(options.Driver, options.DataSource)
		if err != nil {
			// unknown driver or bad DSN will not fix itself
			return nil, backoff.Permanent(err)
		}
		db.SetMaxOpenConns(options.MaxOpenConns)
		db.SetMaxIdleConns(options.MaxIdleConns)
		db.SetConnMaxLifetime(options.ConnMaxLifetime)
		db.SetConnMaxIdleTime(options.ConnMaxIdleTime)

		if err := db.Ping(); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = options.RetryDelay
	policy.MaxElapsedTime = 0

	db, err := backoff.RetryWithData(connect,
		backoff.WithMaxRetries(policy, uint64(options.RetryAttempts-1)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", options.RetryAttempts, err)
	}
	return db, nil
}
