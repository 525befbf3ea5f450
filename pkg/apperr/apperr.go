// Package apperr carries an HTTP status alongside a domain error so services
// can stay transport-agnostic while handlers still answer with the right code.
//
//	if count > 0 {
//	    return apperr.BadRequest("Cannot delete category with existing products")
//	}
//
//	// in a handler
//	if err != nil {
//	    c.Fail(err)
//	    return
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgDuplicateKey is the SQLSTATE Postgres returns for unique violations.
const pgDuplicateKey = "23505"

// Error is an error with a client-facing message and HTTP status.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches an underlying cause, keeping status and message.
func (e *Error) Wrap(err error) *Error {
	return &Error{Status: e.Status, Message: e.Message, Err: err}
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// StatusOf returns the HTTP status for err; unknown errors are 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// FromDB translates ORM errors. notFound is the message used for a missing row.
func FromDB(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFound).Wrap(err)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Conflict("Resource already exists").Wrap(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateKey {
		return Conflict("Resource already exists").Wrap(err)
	}

	return Internal(err)
}
