// Package bind decodes a JSON request body and validates it.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/validate"
)

// ErrEmptyBody is returned for a request without a body.
var ErrEmptyBody = errors.New("request body is required")

func maxBodyBytes() int64 {
	if n := config.Int("MAX_BODY_BYTES", 1<<20); n > 0 {
		return int64(n)
	}
	return 1 << 20
}

// JSON decodes r.Body into dest, capped at MAX_BODY_BYTES (default 1 MB),
// then validates it. Malformed input yields (nil, err); rule failures
// yield (errs, nil).
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return nil, ErrEmptyBody
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.As(err, &typeErr):
			return nil, fmt.Errorf("invalid value for field %q", typeErr.Field)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
