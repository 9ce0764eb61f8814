package directory

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ppiankov/legisref/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// DBExecutor accepts either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// InitDB creates the legislators table if needed
func InitDB(db *sql.DB) error {
	for _, s := range strings.Split(schemaSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// SQLite stores legislators in a SQLite database
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return NewSQLite(db)
}

// NewSQLite wraps an open database, applying the schema
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if err := InitDB(db); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Import upserts legislators in one transaction and returns how many were written
func (s *SQLite) Import(ctx context.Context, legislators []model.Legislator) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}

	for i, l := range legislators {
		if err := Upsert(ctx, tx, l); err != nil {
			tx.Rollback()
			return i, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(legislators), nil
}

// Upsert inserts l or replaces the record with the same bioguide ID
func Upsert(ctx context.Context, db DBExecutor, l model.Legislator) error {
	id := strings.TrimSpace(l.BioguideID)
	if id == "" {
		return fmt.Errorf("bioguide ID must be non-empty")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO legislators (bioguide_id, first_name, last_name, gender, chamber, state)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(bioguide_id) DO UPDATE SET
		   first_name = excluded.first_name,
		   last_name = excluded.last_name,
		   gender = excluded.gender,
		   chamber = excluded.chamber,
		   state = excluded.state`,
		id, l.FirstName, l.LastName, string(l.Gender), string(l.Chamber), l.State,
	)
	if err != nil {
		return fmt.Errorf("upsert legislator %s: %w", id, err)
	}
	return nil
}

// Find returns legislators matching every set field of filter, in insertion order
func (s *SQLite) Find(ctx context.Context, filter model.Filter) ([]model.Legislator, error) {
	return find(ctx, s.db, filter)
}

// Count returns the number of stored legislators
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM legislators`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count legislators: %w", err)
	}
	return n, nil
}

func find(ctx context.Context, db DBExecutor, filter model.Filter) ([]model.Legislator, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(column, value string) {
		if value != "" {
			where = append(where, column+" = ?")
			args = append(args, value)
		}
	}
	add("chamber", string(filter.Chamber))
	add("gender", string(filter.Gender))
	add("last_name", filter.LastName)
	add("first_name", filter.FirstName)
	add("state", filter.State)

	query := `SELECT bioguide_id, first_name, last_name, gender, chamber, state FROM legislators`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query legislators: %w", err)
	}
	defer rows.Close()

	matches := []model.Legislator{}
	for rows.Next() {
		var (
			l               model.Legislator
			gender, chamber string
		)
		if err := rows.Scan(&l.BioguideID, &l.FirstName, &l.LastName, &gender, &chamber, &l.State); err != nil {
			return nil, fmt.Errorf("scan legislator: %w", err)
		}
		l.Gender = model.Gender(gender)
		l.Chamber = model.Chamber(chamber)
		matches = append(matches, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read legislators: %w", err)
	}

	return matches, nil
}
