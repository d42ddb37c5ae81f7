package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required

	"api_reports/internal/config"
)

//go:embed migrations
var migrations embed.FS

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ErrUnknownDriver is returned when DB_DRIVER names an unsupported dialect.
var ErrUnknownDriver = errors.New("unknown database driver")

// DB wraps *sql.DB with the dialect-specific bits the repositories need.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the database selected by cfg and checks it with a ping.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	var (
		dialect    Dialect
		driverName string
		dsn        string
	)

	switch strings.ToLower(cfg.Driver) {
	case "postgres", "postgresql":
		dialect, driverName, dsn = Postgres, "postgres", cfg.PostgresDSN()
	case "mysql":
		dialect, driverName, dsn = MySQL, "mysql", cfg.MySQLDSN()
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialect, driverName = SQLite, "sqlite"
		dsn = cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}

	if dialect != SQLite {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping failed: %w", dialect, err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Migrate applies the embedded migrations for the DB's dialect.
func (d *DB) Migrate() error {
	src, err := iofs.New(migrations, "migrations/"+string(d.Dialect))
	if err != nil {
		return fmt.Errorf("could not open migration source: %w", err)
	}

	var driver database.Driver
	switch d.Dialect {
	case Postgres:
		driver, err = migratepg.WithInstance(d.DB, &migratepg.Config{})
	case MySQL:
		driver, err = migratemysql.WithInstance(d.DB, &migratemysql.Config{})
	default:
		driver, err = migratesqlite.WithInstance(d.DB, &migratesqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(d.Dialect), driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// Rebind rewrites '?' placeholders into the dialect's bind syntax.
func (d *DB) Rebind(query string) string {
	if d.Dialect != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Placeholders returns n comma separated '?' markers for an IN clause.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Insert runs an INSERT and returns the generated id.
// Postgres has no LastInsertId, so the statement gets a RETURNING clause there.
func (d *DB) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	if d.Dialect == Postgres {
		var id int64
		if err := d.QueryRowContext(ctx, d.Rebind(query)+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := d.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
