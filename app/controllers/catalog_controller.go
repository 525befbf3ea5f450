package controllers

import (
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
)

type CategoryController struct {
	service *services.CategoryService
}

func NewCategoryController() *CategoryController {
	return &CategoryController{service: services.NewCategoryService()}
}

func (h *CategoryController) Index(c *ctx.Context) {
	f := services.CategoryFilter{
		ParentID: optionalUint(c, "parentId"),
		RootOnly: c.Query("parentId") == "root",
		Search:   c.Query("search"),
		Featured: c.QueryBool("featured"),
	}
	cats, pg, err := h.service.List(c.Context(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(cats, pg)
}

func (h *CategoryController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	cat, err := h.service.Find(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *CategoryController) Store(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.service.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(cat)
}

func (h *CategoryController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.service.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *CategoryController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Category deleted")
}

type CollectionController struct {
	service *services.CollectionService
}

func NewCollectionController() *CollectionController {
	return &CollectionController{service: services.NewCollectionService()}
}

func (h *CollectionController) Index(c *ctx.Context) {
	f := services.CollectionFilter{
		Featured:   c.QueryBool("featured"),
		Season:     c.Query("season"),
		Search:     c.Query("search"),
		ActiveOnly: !c.Principal().IsAdmin(),
	}
	out, pg, err := h.service.List(c.Context(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *CollectionController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	col, err := h.service.Find(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(col)
}

func (h *CollectionController) Store(c *ctx.Context) {
	var in services.CollectionInput
	if !c.BindJSON(&in) {
		return
	}
	col, err := h.service.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(col)
}

func (h *CollectionController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.CollectionInput
	if !c.BindJSON(&in) {
		return
	}
	col, err := h.service.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(col)
}

func (h *CollectionController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Collection deleted")
}

func (h *CollectionController) AddProduct(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var body struct {
		ProductID uint `json:"productId" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}
	col, err := h.service.AddProduct(c.Context(), c.Principal(), id, body.ProductID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(col)
}

func (h *CollectionController) RemoveProduct(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	productID, ok := c.ParamUint("productId")
	if !ok {
		return
	}
	if err := h.service.RemoveProduct(c.Context(), c.Principal(), id, productID); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product removed from collection")
}
