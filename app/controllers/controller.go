// Package controllers adapts HTTP requests to the services: bind, call,
// write the envelope.
package controllers

import (
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
)

func page(c *ctx.Context) services.Page {
	p, l := c.Page()
	return services.Page{Page: p, Limit: l}
}

// optionalUint reads a numeric query parameter as a pointer; nil when
// absent or malformed.
func optionalUint(c *ctx.Context, key string) *uint {
	if n := c.QueryUint(key); n != 0 {
		return &n
	}
	return nil
}
