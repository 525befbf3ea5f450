package controllers

import (
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
)

type ProfessionalController struct {
	service *services.ProfessionalService
	types   *services.ProfessionalTypeService
}

func NewProfessionalController() *ProfessionalController {
	return &ProfessionalController{
		service: services.NewProfessionalService(),
		types:   services.NewProfessionalTypeService(),
	}
}

func (h *ProfessionalController) Index(c *ctx.Context) {
	f := services.ProfessionalFilter{
		TypeID:   c.QueryUint("typeId"),
		Verified: c.QueryBool("verified"),
		Search:   c.Query("search"),
	}
	out, pg, err := h.service.List(c.Context(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *ProfessionalController) Show(c *ctx.Context) {
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

func (h *ProfessionalController) Store(c *ctx.Context) {
	var in services.ProfessionalInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.service.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(res)
}

func (h *ProfessionalController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ProfessionalInput
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

func (h *ProfessionalController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Professional profile deleted")
}

func (h *ProfessionalController) Types(c *ctx.Context) {
	out, err := h.types.List(c.Context(), !c.Principal().IsAdmin())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(out)
}

func (h *ProfessionalController) StoreType(c *ctx.Context) {
	var in services.ProfessionalTypeInput
	if !c.BindJSON(&in) {
		return
	}
	t, err := h.types.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(t)
}

func (h *ProfessionalController) UpdateType(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ProfessionalTypeInput
	if !c.BindJSON(&in) {
		return
	}
	t, err := h.types.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(t)
}

func (h *ProfessionalController) DestroyType(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.types.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Professional type deleted")
}
