// Package postgres stores contacts in PostgreSQL through lib/pq. It accepts
// the same ADO.NET-style connection string as the SQL Server backend so a
// deployment can switch drivers without changing its secrets layout.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/aanand-mishra/contacts-api/internal/connstring"
	"github.com/aanand-mishra/contacts-api/internal/storage"
	"github.com/aanand-mishra/contacts-api/internal/types"

	_ "github.com/lib/pq"
)

// DefaultPort replaces connstring.DefaultPort when the connection string
// does not name a port.
const DefaultPort = 5432

const createTable = `
CREATE TABLE IF NOT EXISTS contacts (
	id    INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name  VARCHAR(255),
	email VARCHAR(255),
	phone VARCHAR(50)
)`

type Postgres struct {
	dsn string
	log *slog.Logger
}

func New(connectionString string, log *slog.Logger) *Postgres {
	return &Postgres{dsn: connectionString, log: log}
}

// URL converts a parsed connection string into a lib/pq URL. Encryption is
// always requested, which lib/pq spells sslmode=require.
func URL(cfg connstring.Config) string {
	port := cfg.Port
	if !cfg.ExplicitPort {
		port = DefaultPort
	}

	q := url.Values{}
	if cfg.Encrypt {
		q.Set("sslmode", "require")
	} else {
		q.Set("sslmode", "disable")
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (p *Postgres) Connect(ctx context.Context) (storage.Conn, error) {
	cfg, err := connstring.Resolve(p.dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.Connect: %w: %w", storage.ErrNotConfigured, err)
	}
	p.log.Debug("parsed connection string", slog.String("config", cfg.String()))

	db, err := sql.Open("postgres", URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres.Connect: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres.Connect: ping %s: %w", cfg.Host, err)
	}
	return &conn{db: db}, nil
}

type conn struct {
	db *sql.DB
}

func (c *conn) InsertContact(ctx context.Context, contact types.Contact) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("InsertContact: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTable); err != nil {
		return 0, fmt.Errorf("InsertContact: create table: %w", err)
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		"INSERT INTO contacts (name, email, phone) VALUES ($1, $2, $3) RETURNING id",
		contact.Name, contact.Email, contact.Phone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("InsertContact: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("InsertContact: commit: %w", err)
	}
	return id, nil
}

func (c *conn) Close() error {
	return c.db.Close()
}
