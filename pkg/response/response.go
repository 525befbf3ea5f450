// Package response writes the JSON envelope from plain net/http handlers
// and middleware. Controllers use the same envelope through pkg/ctx.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/PascalSeth/trendiwear/pkg/orm"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Status int         `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Errors interface{} `json:"errors,omitempty"`
}

// List is the data block of a paginated response.
type List struct {
	Items      interface{}    `json:"items"`
	Pagination orm.Pagination `json:"pagination"`
}

// Write encodes body with status.
func Write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func Success(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

// Error sends {status, error}.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Status: status, Error: message})
}

// ValidationError sends a 422 with a field → message map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Write(w, http.StatusUnprocessableEntity, Envelope{
		Status: http.StatusUnprocessableEntity,
		Error:  "Validation failed",
		Errors: errs,
	})
}

func Paginated(w http.ResponseWriter, items interface{}, p orm.Pagination) {
	Success(w, List{Items: items, Pagination: p})
}

func Unauthorized(w http.ResponseWriter) { Error(w, http.StatusUnauthorized, "Unauthorized") }
func Forbidden(w http.ResponseWriter)    { Error(w, http.StatusForbidden, "Forbidden") }
func NotFound(w http.ResponseWriter)     { Error(w, http.StatusNotFound, "Not found") }
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "Too many requests")
}
