// Package ctx gives handlers a single *Context with request helpers and
// the JSON envelope writers.
//
//	func (h *ProductController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    if !ok {
//	        return
//	    }
//	    p, err := h.svc.Find(c.Context(), id)
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(p)
//	}
//
//	r.Get("/products/{id}", "products.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/bind"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/orm"
	"github.com/PascalSeth/trendiwear/pkg/response"
)

type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

func (c *Context) Context() context.Context { return c.R.Context() }

func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter. On failure it writes a 400
// and returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.Error(http.StatusBadRequest, "Invalid "+key)
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return strings.TrimSpace(c.R.URL.Query().Get(key))
}

func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt returns def when key is absent or not an integer.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// QueryUint returns 0 when key is absent or malformed.
func (c *Context) QueryUint(key string) uint {
	n, _ := strconv.ParseUint(c.Query(key), 10, 64)
	return uint(n)
}

// QueryBool returns nil when key is absent, so filters can tell
// "not given" from "false".
func (c *Context) QueryBool(key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

// Page reads page and limit query parameters, normalised.
func (c *Context) Page() (page, limit int) {
	return orm.NormalizePage(c.QueryInt("page", 1), c.QueryInt("limit", orm.DefaultLimit))
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Principal is the authenticated caller; zero value on public routes.
func (c *Context) Principal() auth.Principal {
	p, _ := auth.FromContext(c.R.Context())
	return p
}

func (c *Context) UserID() uint { return c.Principal().UserID }
func (c *Context) Role() string { return c.Principal().Role }

// BindJSON decodes and validates the body. It writes a 400 or 422 and
// returns false on failure.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// FormFile parses a multipart body capped at maxBytes and returns the
// named file. It writes a 400/413 and returns ok=false on failure.
func (c *Context) FormFile(field string, maxBytes int64) (multipart.File, *multipart.FileHeader, bool) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxBytes+(1<<20))
	if err := c.R.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(http.StatusRequestEntityTooLarge, "File too large")
			return nil, nil, false
		}
		c.Error(http.StatusBadRequest, "Expected multipart/form-data body")
		return nil, nil, false
	}

	f, fh, err := c.R.FormFile(field)
	if err != nil {
		c.Error(http.StatusBadRequest, "No file provided")
		return nil, nil, false
	}
	if fh.Size > maxBytes {
		f.Close()
		c.Error(http.StatusRequestEntityTooLarge, "File too large")
		return nil, nil, false
	}
	return f, fh, true
}

func (c *Context) PostForm(key string) string {
	return c.R.FormValue(key)
}

func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, response.Envelope{Status: http.StatusCreated, Data: data})
}

// Message answers 200 with {"data":{"message":msg}}.
func (c *Context) Message(msg string) {
	c.Success(map[string]string{"message": msg})
}

func (c *Context) Paginated(items any, p orm.Pagination) {
	c.Success(response.List{Items: items, Pagination: p})
}

func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Error: message})
}

func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, response.Envelope{
		Status: http.StatusUnprocessableEntity,
		Error:  "Validation failed",
		Errors: errs,
	})
}

// Fail writes err as an error envelope. *apperr.Error keeps its status and
// message; anything else is logged and answered with a generic 500.
func (c *Context) Fail(err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Internal(err)
	}
	if e.Status >= http.StatusInternalServerError {
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.R.Method,
			"path", c.R.URL.Path,
			"error", err,
		)
	}
	c.Error(e.Status, e.Message)
}

func (c *Context) Unauthorized(message ...string) {
	c.Error(http.StatusUnauthorized, first(message, "Unauthorized"))
}

func (c *Context) Forbidden(message ...string) {
	c.Error(http.StatusForbidden, first(message, "Forbidden"))
}

func (c *Context) NotFound(message ...string) {
	c.Error(http.StatusNotFound, first(message, "Not found"))
}

// WrittenStatus is the status written so far, 0 if none.
func (c *Context) WrittenStatus() int { return c.status }

func first(s []string, def string) string {
	if len(s) > 0 && s[0] != "" {
		return s[0]
	}
	return def
}
