package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

//go:embed schema.sql
var schemaSQL string

// Database is the stats database. The DSN decides the backend: a
// postgres:// URL opens PostgreSQL, anything else is treated as a
// SQLite file path.
type Database struct {
	conn     *sql.DB
	dsn      string
	postgres bool
}

// Open connects to the stats database and configures the pool.
func Open(dsn string) (*Database, error) {
	driver := "sqlite"
	postgres := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
	if postgres {
		driver = "postgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if postgres {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
		db.SetConnMaxIdleTime(10 * time.Minute)
	} else {
		// SQLite: one writer at a time
		db.SetMaxOpenConns(1)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn:     db,
		dsn:      dsn,
		postgres: postgres,
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// Postgres reports whether the backend is PostgreSQL.
func (db *Database) Postgres() bool {
	return db.postgres
}

// Rebind rewrites ? placeholders to $n for PostgreSQL. Queries in this
// module are written with ? so both backends work.
func (db *Database) Rebind(query string) string {
	if !db.postgres {
		return query
	}
	var b strings.Builder
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

// RunMigrations applies the embedded schema. Every statement is
// idempotent, so reruns are safe.
func (db *Database) RunMigrations() error {
	log.Println("[store] Running database migrations...")

	for _, stmt := range splitStatements(schemaSQL) {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	log.Println("[store] ✓ All migrations completed successfully")
	return nil
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}

func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
