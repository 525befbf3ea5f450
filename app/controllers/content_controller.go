package controllers

import (
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
)

type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController() *ReviewController {
	return &ReviewController{service: services.NewReviewService()}
}

func (h *ReviewController) Index(c *ctx.Context) {
	f := services.ReviewFilter{
		ProductID:      c.QueryUint("productId"),
		ProfessionalID: c.QueryUint("professionalId"),
	}
	out, pg, err := h.service.List(c.Context(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *ReviewController) Store(c *ctx.Context) {
	var in services.ReviewInput
	if !c.BindJSON(&in) {
		return
	}
	r, err := h.service.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(r)
}

func (h *ReviewController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Review deleted")
}

type BlogController struct {
	service *services.BlogService
}

func NewBlogController() *BlogController {
	return &BlogController{service: services.NewBlogService()}
}

func (h *BlogController) Index(c *ctx.Context) {
	f := services.BlogFilter{
		Search:   c.Query("search"),
		Tag:      c.Query("tag"),
		AuthorID: c.QueryUint("authorId"),
	}
	out, pg, err := h.service.List(c.Context(), c.Principal(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *BlogController) Show(c *ctx.Context) {
	b, err := h.service.FindBySlug(c.Context(), c.Principal(), c.Param("slug"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(b)
}

func (h *BlogController) Store(c *ctx.Context) {
	var in services.BlogInput
	if !c.BindJSON(&in) {
		return
	}
	b, err := h.service.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(b)
}

func (h *BlogController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.BlogInput
	if !c.BindJSON(&in) {
		return
	}
	b, err := h.service.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(b)
}

func (h *BlogController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Blog deleted")
}

type ReportController struct {
	service *services.ReportService
}

func NewReportController() *ReportController {
	return &ReportController{service: services.NewReportService()}
}

func (h *ReportController) Store(c *ctx.Context) {
	var in services.ReportInput
	if !c.BindJSON(&in) {
		return
	}
	r, err := h.service.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(r)
}

func (h *ReportController) Index(c *ctx.Context) {
	f := services.ReportFilter{Status: c.Query("status"), ContentType: c.Query("contentType")}
	out, pg, err := h.service.List(c.Context(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *ReportController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ReportUpdateInput
	if !c.BindJSON(&in) {
		return
	}
	r, err := h.service.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(r)
}
