package testkit_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/pkg/ctx"
	outbound "github.com/PascalSeth/trendiwear/pkg/http"
	"github.com/PascalSeth/trendiwear/pkg/middleware"
	"github.com/PascalSeth/trendiwear/pkg/router"
	"github.com/PascalSeth/trendiwear/pkg/testkit"
)

func handler() http.Handler {
	r := router.New()
	r.Get("/health", "health", ctx.Wrap(func(c *ctx.Context) {
		c.Success(map[string]string{"database": "ok"})
	}))
	r.Get("/me", "me", ctx.Wrap(func(c *ctx.Context) {
		c.Success(c.Principal())
	}), middleware.Auth)
	r.Post("/ping-hook", "hook", ctx.Wrap(func(c *ctx.Context) {
		resp, err := outbound.Post("https://hooks.trendiwear.test/x").Body(map[string]string{"a": "b"}).Send(context.Background())
		if err != nil {
			c.Fail(err)
			return
		}
		c.Success(map[string]int{"upstream": resp.StatusCode})
	}))
	return r.Handler()
}

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, handler(), "testdata")
}

func TestLookup(t *testing.T) {
	doc := map[string]any{"data": map[string]any{"items": []any{map[string]any{"name": "Kente"}}}}
	v, ok := testkit.Lookup(doc, "data.items.0.name")
	require.True(t, ok)
	assert.Equal(t, "Kente", v)

	_, ok = testkit.Lookup(doc, "data.items.3.name")
	assert.False(t, ok)
}

type row struct {
	ID   uint
	Name string
}

func TestNewDB(t *testing.T) {
	db := testkit.NewDB(t, &row{})
	require.NoError(t, db.Create(&row{Name: "a"}).Error)
	var n int64
	db.Model(&row{}).Count(&n)
	assert.EqualValues(t, 1, n)
}
