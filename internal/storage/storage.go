// Package storage defines the contract any database backend must satisfy to
// hold contact submissions.
//
// Backends do not pool. Every request calls Connect, uses the returned Conn
// for exactly one insert and closes it again.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/contacts-api/internal/types"
)

// ErrNotConfigured is returned by Connect when the backend has no
// connection string (or file path) to dial. No connection is attempted.
var ErrNotConfigured = errors.New("storage: missing connection string")

// Storage hands out per-request connections.
type Storage interface {
	// Connect opens a fresh connection and verifies it is usable.
	Connect(ctx context.Context) (Conn, error)
}

// Conn is a single open database connection.
type Conn interface {
	// InsertContact creates the Contacts table if it does not exist yet,
	// inserts one row and returns its identity value.
	InsertContact(ctx context.Context, contact types.Contact) (int64, error)

	// Close releases the connection. It is safe to call more than once.
	Close() error
}
