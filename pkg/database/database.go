package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Dialect carries the few DDL fragments that differ between backends.
type Dialect struct {
	Name      string
	IDColumn  string
	Timestamp string
}

var (
	PostgresDialect = Dialect{Name: DriverPostgres, IDColumn: "BIGSERIAL PRIMARY KEY", Timestamp: "TIMESTAMPTZ"}
	SQLiteDialect   = Dialect{Name: DriverSQLite, IDColumn: "INTEGER PRIMARY KEY AUTOINCREMENT", Timestamp: "TIMESTAMP"}
)

// DB wraps sqlx.DB with transaction propagation through context.
type DB struct {
	*sqlx.DB
	Dialect Dialect
}

type txKey struct{}

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

func New(cfg *Config) (*DB, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return NewSQLite(cfg.Path)
	case DriverPostgres, "":
		return NewPostgres(cfg)
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewPostgres(cfg *Config) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &DB{DB: db, Dialect: PostgresDialect}, nil
}

// NewSQLite opens a SQLite database. Pass ":memory:" for a private in-memory
// database. A single connection is used so that every statement observes the
// same transaction state.
func NewSQLite(path string) (*DB, error) {
	if path == ":memory:" {
		path = ""
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", path)
	if path == "" {
		dsn = "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite"
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect sqlite")
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	return &DB{DB: db, Dialect: SQLiteDialect}, nil
}

// Ext returns the transaction bound to ctx, or the pool when there is none.
func (db *DB) Ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db.DB
}

// InTx reports whether ctx carries an open transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return ok
}

// WithinTx runs fn inside one transaction. Nested calls join the outer one.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	committed = true
	return nil
}

// InsertReturningID executes a named INSERT and returns the generated id.
func (db *DB) InsertReturningID(ctx context.Context, query string, arg interface{}) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, db.Ext(ctx), query+" RETURNING id", arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, sql.ErrNoRows
	}

	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Get wraps sqlx.GetContext and maps sql.ErrNoRows to found=false.
func (db *DB) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	ext := db.Ext(ctx)
	err := sqlx.GetContext(ctx, ext, dest, ext.Rebind(query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (db *DB) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ext := db.Ext(ctx)
	return sqlx.SelectContext(ctx, ext, dest, ext.Rebind(query), args...)
}

func (db *DB) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ext := db.Ext(ctx)
	return ext.ExecContext(ctx, ext.Rebind(query), args...)
}

func (db *DB) NamedExec(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	return sqlx.NamedExecContext(ctx, db.Ext(ctx), query, arg)
}
