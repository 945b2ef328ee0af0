// Package sqlserver provides the Microsoft SQL Server / Azure SQL backend of
// storage.Storage on top of database/sql and go-mssqldb.
package sqlserver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/contacts-api/internal/connstring"
	"github.com/aanand-mishra/contacts-api/internal/storage"
	"github.com/aanand-mishra/contacts-api/internal/types"

	// Registers the "sqlserver" driver.
	_ "github.com/microsoft/go-mssqldb"
)

// insertContact creates the table on first use and inserts one row in the
// same batch. The trailing SELECT returns the identity of the new row.
const insertContact = `
IF NOT EXISTS (SELECT * FROM sysobjects WHERE name = 'Contacts' AND xtype = 'U')
CREATE TABLE Contacts (
	ID    int NOT NULL IDENTITY(1,1) PRIMARY KEY,
	Name  varchar(255),
	Email varchar(255),
	Phone varchar(50)
);
INSERT INTO Contacts (Name, Email, Phone) VALUES (@Name, @Email, @Phone);
SELECT CAST(SCOPE_IDENTITY() AS bigint);
`

// SQLServer dials a new connection for every request.
type SQLServer struct {
	dsn string
	log *slog.Logger
}

// New returns a backend for the given ADO.NET-style connection string.
// An empty string is accepted; Connect then reports storage.ErrNotConfigured.
func New(connectionString string, log *slog.Logger) *SQLServer {
	return &SQLServer{dsn: connectionString, log: log}
}

// Connect parses the connection string, opens a connection and pings it.
func (s *SQLServer) Connect(ctx context.Context) (storage.Conn, error) {
	cfg, err := connstring.Resolve(s.dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlserver.Connect: %w: %w", storage.ErrNotConfigured, err)
	}
	s.log.Debug("parsed connection string", slog.String("config", cfg.String()))

	db, err := sql.Open("sqlserver", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("sqlserver.Connect: open: %w", err)
	}
	// One request, one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlserver.Connect: ping %s: %w", cfg.Host, err)
	}

	return &conn{db: db}, nil
}

type conn struct {
	db *sql.DB
}

func (c *conn) InsertContact(ctx context.Context, contact types.Contact) (int64, error) {
	var id int64
	err := c.db.QueryRowContext(ctx, insertContact,
		sql.Named("Name", contact.Name),
		sql.Named("Email", contact.Email),
		sql.Named("Phone", contact.Phone),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("InsertContact: %w", err)
	}
	return id, nil
}

func (c *conn) Close() error {
	return c.db.Close()
}
