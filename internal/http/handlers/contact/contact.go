// Package contact contains the HTTP handler that accepts contact form
// submissions.
//
// The handler follows the closure / factory pattern: New receives its
// dependencies once at startup and returns the http.HandlerFunc that runs on
// every request.
//
//	router.HandleFunc("POST /api/contacts", contact.New(log, store, timeouts))
//
// Every request walks the same four steps:
//
//	validate → connect → ensure table and insert → respond
//
// and every failure is terminal for that request. Nothing is retried.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/contacts-api/internal/storage"
	"github.com/aanand-mishra/contacts-api/internal/types"
	"github.com/aanand-mishra/contacts-api/internal/utils/response"
)

// maxBodyBytes caps the request body. A contact is three short strings.
const maxBodyBytes = 100 << 10

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// Timeouts bound the two database round trips of a request. A zero value
// leaves that step bounded only by the request context.
type Timeouts struct {
	Connect time.Duration
	Query   time.Duration
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/contacts
//
// Request body (JSON):
//
//	{ "name": "Ada", "email": "ada@example.com", "phone": "555-0100" }
//
// Responses (text/plain):
//
//	200  Contact added successfully.
//	400  All fields are required.
//	500  Server configuration error: Missing connection string.
//	500  Database connection error.
//	500  Error executing query.
//
// ─────────────────────────────────────────────────────────────────────────────
func New(log *slog.Logger, store storage.Storage, timeouts Timeouts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("received contact submission")

		// ── Step 1: Validate ──────────────────────────────────────────
		// An empty or malformed body is treated the same as a body with
		// missing fields.
		var contact types.Contact
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
			log.Warn("validation failed: unreadable body", slog.String("error", err.Error()))
			response.WriteText(w, http.StatusBadRequest, response.FieldsRequired)
			return
		}

		if err := validate.Struct(contact); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				log.Warn("validation failed", slog.String("error", response.DescribeValidation(verrs)))
			} else {
				log.Warn("validation failed", slog.String("error", err.Error()))
			}
			response.WriteText(w, http.StatusBadRequest, response.FieldsRequired)
			return
		}

		// ── Step 2: Connect ───────────────────────────────────────────
		connectCtx, cancel := withTimeout(r.Context(), timeouts.Connect)
		conn, err := store.Connect(connectCtx)
		cancel()
		if errors.Is(err, storage.ErrNotConfigured) {
			log.Error("connection string is not set", slog.String("error", err.Error()))
			response.WriteText(w, http.StatusInternalServerError, response.MissingConfigError)
			return
		}
		if err != nil {
			log.Error("database connection failed", slog.String("error", err.Error()))
			response.WriteText(w, http.StatusInternalServerError, response.ConnectionError)
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Warn("closing database connection", slog.String("error", err.Error()))
			}
		}()

		// ── Step 3: Ensure table and insert ───────────────────────────
		queryCtx, cancel := withTimeout(r.Context(), timeouts.Query)
		defer cancel()

		id, err := conn.InsertContact(queryCtx, contact)
		if err != nil {
			log.Error("SQL query execution failed", slog.String("error", err.Error()))
			response.WriteText(w, http.StatusInternalServerError, response.QueryError)
			return
		}

		// ── Step 4: Respond ───────────────────────────────────────────
		log.Info("contact added", slog.Int64("id", id))
		response.WriteText(w, http.StatusOK, response.ContactAdded)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
