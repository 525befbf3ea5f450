package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{service: services.NewProductService()}
}

func (h *ProductController) Index(c *ctx.Context) {
	f := services.ProductFilter{
		CategoryID:      c.QueryUint("categoryId"),
		CollectionID:    c.QueryUint("collectionId"),
		ProfessionalID:  c.QueryUint("professionalId"),
		Search:          c.Query("search"),
		IncludeInactive: c.Principal().IsAdmin() && c.Query("includeInactive") == "true",
	}
	var ok bool
	if f.MinPrice, ok = priceQuery(c, "minPrice"); !ok {
		return
	}
	if f.MaxPrice, ok = priceQuery(c, "maxPrice"); !ok {
		return
	}

	out, pg, err := h.service.List(c.Context(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *ProductController) Showcase(c *ctx.Context) {
	res, err := h.service.Showcase(c.Context(), page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(res.Items, res.Pagination)
}

func (h *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	p, err := h.service.Find(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.service.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(p)
}

func (h *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.service.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product deleted")
}

func (h *ProductController) SetShowcase(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var body struct {
		Approved *bool `json:"approved" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}
	p, err := h.service.SetShowcase(c.Context(), c.Principal(), id, *body.Approved)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

// priceQuery parses an optional decimal query parameter, writing a 400 on
// malformed input.
func priceQuery(c *ctx.Context, key string) (*decimal.Decimal, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid "+key)
		return nil, false
	}
	return &d, true
}
