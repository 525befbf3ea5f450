package controllers

import (
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{
		service: services.NewAuthService(),
	}
}

func (h *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(res)
}

func (h *AuthController) Login(c *ctx.Context) {
	var body struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}
	res, err := h.service.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(res)
}

func (h *AuthController) Refresh(c *ctx.Context) {
	var body struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}
	res, err := h.service.Refresh(c.Context(), body.RefreshToken)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(res)
}

func (h *AuthController) Me(c *ctx.Context) {
	user, err := h.service.Me(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(user)
}
