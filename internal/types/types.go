// Package types holds the data structures shared by the HTTP handlers and
// the storage backends.
package types

// Contact is a single form submission.
//
// validate:"required" rejects missing and empty strings alike; no format
// checks are applied to any field.
type Contact struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}
