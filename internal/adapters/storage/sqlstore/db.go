// Package sqlstore guarda consultas, planes y explicaciones en SQL.
// DSN "postgres://..." usa pgx; "sqlite:<path>" usa go-sqlite3.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB es un *sql.DB con el dialecto, para ajustar placeholders y DDL.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open abre la base según el DSN y verifica la conexión.
func Open(dsn string) (*DB, error) {
	dialect, driver, source, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case SQLite:
		// una sola conexión: sqlite serializa escrituras y ":memory:" es por conexión
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxIdleTime(5 * time.Minute)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

func parseDSN(dsn string) (Dialect, string, string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, "pgx", dsn, nil
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
		if path == "" {
			return "", "", "", errors.New("sqlite dsn requires a path (sqlite:patientpal.db or sqlite::memory:)")
		}
		return SQLite, "sqlite3", path, nil
	default:
		return "", "", "", fmt.Errorf("unsupported DB_DSN %q: use postgres://... or sqlite:<path>", dsn)
	}
}

// rebind pasa los "?" a "$n" en postgres.
func (db *DB) rebind(q string) string {
	if db.Dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnsureSchema crea las tablas si no existen. Los campos compuestos se guardan como JSON en TEXT.
func (db *DB) EnsureSchema(ctx context.Context) error {
	ts := "TIMESTAMP"
	if db.Dialect == Postgres {
		ts = "TIMESTAMPTZ"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS consultations (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			source        TEXT NOT NULL,
			transcription TEXT NOT NULL,
			summary       TEXT NOT NULL,
			terms         TEXT NOT NULL,
			created_at    ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS consultations_user_idx ON consultations (user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS medication_schedules (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			medications TEXT NOT NULL,
			schedule    TEXT NOT NULL,
			created_at  ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS medication_schedules_user_idx ON medication_schedules (user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS term_explanations (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			term        TEXT NOT NULL,
			term_key    TEXT NOT NULL,
			context     TEXT NOT NULL,
			explanation TEXT NOT NULL,
			sources     TEXT NOT NULL,
			created_at  ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS term_explanations_lookup_idx ON term_explanations (user_id, term_key)`,
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
