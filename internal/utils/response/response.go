// Package response provides helpers for writing HTTP responses.
//
// Clients of this service (a plain HTML form) expect short plain-text
// bodies, so every outcome, success or failure, is one fixed sentence. Error
// detail is logged, never sent back.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Bodies returned by the contacts endpoint.
const (
	ContactAdded       = "Contact added successfully."
	FieldsRequired     = "All fields are required."
	MissingConfigError = "Server configuration error: Missing connection string."
	ConnectionError    = "Database connection error."
	QueryError         = "Error executing query."
)

// WriteText writes msg as a text/plain body with the given status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteText(w http.ResponseWriter, status int, msg string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, err := w.Write([]byte(msg))
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// DescribeValidation converts a slice of validator.FieldError values into
// a single human-readable sentence for the logs.
//
// Example output:
//
//	field Name is required, field Phone is required
//
// ─────────────────────────────────────────────────────────────────────────────
func DescribeValidation(errs validator.ValidationErrors) string {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return strings.Join(errMessages, ", ")
}
