package controllers

import (
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
	"github.com/PascalSeth/trendiwear/pkg/workerpool"
)

type SettingController struct {
	service *services.SettingService
}

func NewSettingController() *SettingController {
	return &SettingController{service: services.NewSettingService()}
}

func (h *SettingController) Public(c *ctx.Context) {
	out, err := h.service.Public(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(out)
}

func (h *SettingController) Index(c *ctx.Context) {
	out, err := h.service.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(out)
}

func (h *SettingController) Upsert(c *ctx.Context) {
	var in services.SettingInput
	if !c.BindJSON(&in) {
		return
	}
	s, err := h.service.Upsert(c.Context(), c.Principal(), c.Param("key"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(s)
}

func (h *SettingController) Destroy(c *ctx.Context) {
	if err := h.service.Delete(c.Context(), c.Principal(), c.Param("key")); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Setting deleted")
}

type AuditController struct {
	service *services.AuditService
}

func NewAuditController() *AuditController {
	return &AuditController{service: services.NewAuditService()}
}

func (h *AuditController) Index(c *ctx.Context) {
	f := services.AuditFilter{
		UserID:     c.QueryUint("userId"),
		Action:     c.Query("action"),
		EntityType: c.Query("entityType"),
	}
	out, pg, err := h.service.List(c.Context(), f, page(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out, pg)
}

type DashboardController struct {
	service *services.DashboardService
}

func NewDashboardController(pool *workerpool.Pool) *DashboardController {
	return &DashboardController{service: services.NewDashboardService(pool)}
}

func (h *DashboardController) Stats(c *ctx.Context) {
	st, err := h.service.Stats(c.Context(), c.Principal())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(st)
}

type UploadController struct {
	service *services.UploadService
}

func NewUploadController() *UploadController {
	return &UploadController{service: services.NewUploadService()}
}

func (h *UploadController) Store(c *ctx.Context) {
	f, fh, ok := c.FormFile("file", config.UploadMaxBytes())
	if !ok {
		return
	}
	defer f.Close()

	res, err := h.service.Store(c.Context(), c.Principal(), c.PostForm("folder"), f, fh.Size)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(res)
}
