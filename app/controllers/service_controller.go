package controllers

import (
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
)

// ServiceController serves bookable services and their categories.
type ServiceController struct {
	offerings  *services.OfferingService
	categories *services.ServiceCategoryService
}

func NewServiceController() *ServiceController {
	return &ServiceController{
		offerings:  services.NewOfferingService(),
		categories: services.NewServiceCategoryService(),
	}
}

func (h *ServiceController) Index(c *ctx.Context) {
	f := services.OfferingFilter{
		CategoryID:     c.QueryUint("categoryId"),
		ProfessionalID: c.QueryUint("professionalId"),
		Search:         c.Query("search"),
	}
	out, pg, err := h.offerings.List(c.Context(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *ServiceController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	svc, err := h.offerings.Find(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(svc)
}

func (h *ServiceController) Store(c *ctx.Context) {
	var in services.OfferingInput
	if !c.BindJSON(&in) {
		return
	}
	svc, err := h.offerings.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(svc)
}

func (h *ServiceController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.OfferingInput
	if !c.BindJSON(&in) {
		return
	}
	svc, err := h.offerings.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(svc)
}

func (h *ServiceController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.offerings.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Service deleted")
}

func (h *ServiceController) Categories(c *ctx.Context) {
	out, err := h.categories.List(c.Context(), !c.Principal().IsAdmin())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(out)
}

func (h *ServiceController) StoreCategory(c *ctx.Context) {
	var in services.ServiceCategoryInput
	if !c.BindJSON(&in) {
		return
	}
	sc, err := h.categories.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(sc)
}

func (h *ServiceController) UpdateCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ServiceCategoryInput
	if !c.BindJSON(&in) {
		return
	}
	sc, err := h.categories.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(sc)
}

func (h *ServiceController) DestroyCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Service category deleted")
}
