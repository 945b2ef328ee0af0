// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk, so it needs no server
// and is what local development and the handler tests run against. The
// schema mirrors the SQL Server one: an auto-incremented ID plus three
// text columns.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/contacts-api/internal/storage"
	"github.com/aanand-mishra/contacts-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite opens the database file at Path for every request.
type SQLite struct {
	Path string
}

// New returns a backend for the file at path. An empty path is accepted;
// Connect then reports storage.ErrNotConfigured.
func New(path string) *SQLite {
	return &SQLite{Path: path}
}

// Connect opens the file and pings it.
//
// sql.Open does NOT open a real connection yet; it only validates the
// driver name and DSN. The ping forces the file to be opened so a bad
// path surfaces here rather than on the insert.
func (s *SQLite) Connect(ctx context.Context) (storage.Conn, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("sqlite.Connect: %w", storage.ErrNotConfigured)
	}

	db, err := sql.Open("sqlite3", s.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Connect: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Connect: ping: %w", err)
	}

	return &Conn{Db: db}, nil
}

// Conn is one open SQLite handle.
type Conn struct {
	Db *sql.DB
}

// ─────────────────────────────────────────────────────────────────────────────
// InsertContact creates the contacts table if needed and inserts a row.
//
// Both statements run inside one transaction so a failed insert never
// leaves a half-applied batch behind. Values are bound through ?
// placeholders; the driver sends them separately from the SQL text, so a
// name like "'); DROP TABLE Contacts; --" is stored verbatim.
// ─────────────────────────────────────────────────────────────────────────────
func (c *Conn) InsertContact(ctx context.Context, contact types.Contact) (int64, error) {
	tx, err := c.Db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("InsertContact: begin: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS Contacts (
			ID    INTEGER PRIMARY KEY AUTOINCREMENT,
			Name  VARCHAR(255),
			Email VARCHAR(255),
			Phone VARCHAR(50)
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("InsertContact: create table: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO Contacts (Name, Email, Phone) VALUES (?, ?, ?)",
		contact.Name, contact.Email, contact.Phone,
	)
	if err != nil {
		return 0, fmt.Errorf("InsertContact: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("InsertContact: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("InsertContact: commit: %w", err)
	}
	return lastID, nil
}

// Close releases the file handle.
func (c *Conn) Close() error {
	return c.Db.Close()
}
