package ctx_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	appctx "github.com/PascalSeth/trendiwear/pkg/ctx"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

func run(req *http.Request, h appctx.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestSuccessEnvelope(t *testing.T) {
	rec := run(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.Created(map[string]any{"id": 1})
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":201,"data":{"id":1}}`, rec.Body.String())
}

func TestFail(t *testing.T) {
	rec := run(httptest.NewRequest(http.MethodDelete, "/", nil), func(c *appctx.Context) {
		c.Fail(apperr.BadRequest("Cannot delete category with existing products"))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot delete category with existing products", body(t, rec)["error"])

	rec = run(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.Fail(errors.New("dial tcp: connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body(t, rec)["error"])
}

func TestBindJSON(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,min=1"`
	}
	rec := run(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":0}`)), func(c *appctx.Context) {
		var v in
		if !c.BindJSON(&v) {
			return
		}
		c.Success(v)
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	b := body(t, rec)
	assert.Equal(t, "Validation failed", b["error"])
	assert.Contains(t, b["errors"], "quantity")
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			return
		}
		c.Success(id)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/12", nil))
	assert.JSONEq(t, `{"status":200,"data":12}`, rec.Body.String())
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=0&limit=500&featured=true&categoryId=4", nil)
	run(req, func(c *appctx.Context) {
		page, limit := c.Page()
		assert.Equal(t, 1, page)
		assert.Equal(t, orm.MaxLimit, limit)
		require.NotNil(t, c.QueryBool("featured"))
		assert.True(t, *c.QueryBool("featured"))
		assert.Nil(t, c.QueryBool("missing"))
		assert.Equal(t, uint(4), c.QueryUint("categoryId"))
	})
}

func TestPaginated(t *testing.T) {
	rec := run(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.Paginated([]int{1, 2}, orm.NewPagination(1, 2, 5))
	})
	assert.JSONEq(t, `{"status":200,"data":{"items":[1,2],"pagination":{"page":1,"limit":2,"total":5,"totalPages":3}}}`, rec.Body.String())
}

func TestPrincipal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: 8, Role: auth.RoleAdmin}))
	run(req, func(c *appctx.Context) {
		assert.Equal(t, uint(8), c.UserID())
		assert.Equal(t, auth.RoleAdmin, c.Role())
	})
}

func TestFormFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "look.png")
	_, _ = fw.Write(bytes.Repeat([]byte{1}, 2048))
	_ = mw.Close()

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf.Bytes()))
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	rec := run(newReq(), func(c *appctx.Context) {
		_, _, ok := c.FormFile("file", 1024)
		assert.False(t, ok)
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = run(newReq(), func(c *appctx.Context) {
		f, fh, ok := c.FormFile("file", 4096)
		require.True(t, ok)
		defer f.Close()
		c.Success(fh.Filename)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
