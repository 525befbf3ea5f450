package controllers

import (
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
)

type statusBody struct {
	Status string `json:"status" validate:"required,alpha_dash,max=20"`
}

type BookingController struct {
	service *services.BookingService
}

func NewBookingController() *BookingController {
	return &BookingController{service: services.NewBookingService()}
}

func (h *BookingController) Index(c *ctx.Context) {
	out, pg, err := h.service.List(c.Context(), c.Principal(), services.BookingFilter{Status: c.Query("status")}, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *BookingController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	b, err := h.service.Find(c.Context(), c.Principal(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(b)
}

func (h *BookingController) Store(c *ctx.Context) {
	var in services.BookingInput
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

func (h *BookingController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var body statusBody
	if !c.BindJSON(&body) {
		return
	}
	b, err := h.service.UpdateStatus(c.Context(), c.Principal(), id, body.Status)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(b)
}

type CartController struct {
	service *services.CartService
}

func NewCartController() *CartController {
	return &CartController{service: services.NewCartService()}
}

func (h *CartController) Index(c *ctx.Context) {
	cart, err := h.service.Get(c.Context(), c.Principal())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cart)
}

func (h *CartController) Store(c *ctx.Context) {
	var in services.AddToCartInput
	if !c.BindJSON(&in) {
		return
	}
	item, err := h.service.Add(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(item)
}

func (h *CartController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	// Range checks live in the service so a bad quantity answers 400.
	var body struct {
		Quantity int `json:"quantity"`
	}
	if !c.BindJSON(&body) {
		return
	}
	item, err := h.service.UpdateQuantity(c.Context(), c.Principal(), id, body.Quantity)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(item)
}

func (h *CartController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Item removed from cart")
}

func (h *CartController) Clear(c *ctx.Context) {
	if err := h.service.Clear(c.Context(), c.Principal()); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cart cleared")
}

type AddressController struct {
	service *services.AddressService
}

func NewAddressController() *AddressController {
	return &AddressController{service: services.NewAddressService()}
}

func (h *AddressController) Index(c *ctx.Context) {
	out, err := h.service.List(c.Context(), c.Principal())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(out)
}

func (h *AddressController) Store(c *ctx.Context) {
	var in services.AddressInput
	if !c.BindJSON(&in) {
		return
	}
	a, err := h.service.Create(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(a)
}

func (h *AddressController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.AddressInput
	if !c.BindJSON(&in) {
		return
	}
	a, err := h.service.Update(c.Context(), c.Principal(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(a)
}

func (h *AddressController) SetDefault(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	a, err := h.service.SetDefault(c.Context(), c.Principal(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(a)
}

func (h *AddressController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), c.Principal(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Address deleted")
}

type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

func (h *OrderController) Checkout(c *ctx.Context) {
	var in services.CheckoutInput
	// The body is optional; without it the default address is used.
	if c.R.ContentLength != 0 && !c.BindJSON(&in) {
		return
	}
	o, err := h.service.Checkout(c.Context(), c.Principal(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(o)
}

func (h *OrderController) Index(c *ctx.Context) {
	out, pg, err := h.service.List(c.Context(), c.Principal(), services.OrderFilter{Status: c.Query("status")}, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

func (h *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	o, err := h.service.Find(c.Context(), c.Principal(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(o)
}

func (h *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var body statusBody
	if !c.BindJSON(&body) {
		return
	}
	o, err := h.service.UpdateStatus(c.Context(), c.Principal(), id, body.Status)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(o)
}
