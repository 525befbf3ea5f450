package routes

import (
	"time"

	"github.com/PascalSeth/trendiwear/app/controllers"
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/ctx"
	"github.com/PascalSeth/trendiwear/pkg/middleware"
	"github.com/PascalSeth/trendiwear/pkg/rbac"
	"github.com/PascalSeth/trendiwear/pkg/router"
	"github.com/PascalSeth/trendiwear/pkg/sse"
	"github.com/PascalSeth/trendiwear/pkg/workerpool"
	"github.com/PascalSeth/trendiwear/pkg/ws"
)

// Deps are the process-wide collaborators some controllers need.
type Deps struct {
	Pool *workerpool.Pool
	// Live is the admin event feed; nil leaves its routes out.
	Live *ws.Hub
}

func RegisterAPI(r *router.Router, d Deps) {
	authC := controllers.NewAuthController()
	users := controllers.NewUserController()
	categories := controllers.NewCategoryController()
	collections := controllers.NewCollectionController()
	products := controllers.NewProductController()
	professionals := controllers.NewProfessionalController()
	svc := controllers.NewServiceController()
	bookings := controllers.NewBookingController()
	cart := controllers.NewCartController()
	addresses := controllers.NewAddressController()
	orders := controllers.NewOrderController()
	reviews := controllers.NewReviewController()
	blogs := controllers.NewBlogController()
	reports := controllers.NewReportController()
	settings := controllers.NewSettingController()
	audit := controllers.NewAuditController()
	dashboard := controllers.NewDashboardController(d.Pool)
	uploads := controllers.NewUploadController()

	middleware.SetPrincipalLoader(services.NewAuthService().Principal)

	admin := rbac.Admin()
	super := rbac.SuperAdmin()

	api := r.Group("/api")

	a := api.Group("/auth")
	a.Post("/register", "auth.register", ctx.Wrap(authC.Register))
	a.Post("/login", "auth.login", ctx.Wrap(authC.Login))
	a.Post("/refresh", "auth.refresh", ctx.Wrap(authC.Refresh))
	a.Get("/me", "auth.me", ctx.Wrap(authC.Me), middleware.Auth)

	// Storefront reads. OptionalAuth lets admins see drafts and inactive rows.
	pub := api.Group("", middleware.OptionalAuth)
	pub.Get("/categories", "categories.index", ctx.Wrap(categories.Index))
	pub.Get("/categories/{id}", "categories.show", ctx.Wrap(categories.Show))
	pub.Get("/collections", "collections.index", ctx.Wrap(collections.Index))
	pub.Get("/collections/{id}", "collections.show", ctx.Wrap(collections.Show))
	pub.Get("/products", "products.index", ctx.Wrap(products.Index))
	pub.Get("/products/showcase", "products.showcase", ctx.Wrap(products.Showcase))
	pub.Get("/products/{id}", "products.show", ctx.Wrap(products.Show))
	pub.Get("/professional-types", "professional-types.index", ctx.Wrap(professionals.Types))
	pub.Get("/professionals", "professionals.index", ctx.Wrap(professionals.Index))
	pub.Get("/professionals/{id}", "professionals.show", ctx.Wrap(professionals.Show))
	pub.Get("/service-categories", "service-categories.index", ctx.Wrap(svc.Categories))
	pub.Get("/services", "services.index", ctx.Wrap(svc.Index))
	pub.Get("/services/{id}", "services.show", ctx.Wrap(svc.Show))
	pub.Get("/reviews", "reviews.index", ctx.Wrap(reviews.Index))
	pub.Get("/blogs", "blogs.index", ctx.Wrap(blogs.Index))
	pub.Get("/blogs/{slug}", "blogs.show", ctx.Wrap(blogs.Show))
	pub.Get("/settings", "settings.public", ctx.Wrap(settings.Public))

	in := api.Group("", middleware.Auth)

	in.Get("/users", "users.index", ctx.Wrap(users.Index), admin)
	in.Get("/users/{id}", "users.show", ctx.Wrap(users.Show))
	in.Put("/users/{id}", "users.update", ctx.Wrap(users.Update))
	in.Delete("/users/{id}", "users.destroy", ctx.Wrap(users.Destroy), super)

	in.Post("/categories", "categories.store", ctx.Wrap(categories.Store), admin)
	in.Put("/categories/{id}", "categories.update", ctx.Wrap(categories.Update), admin)
	in.Delete("/categories/{id}", "categories.destroy", ctx.Wrap(categories.Destroy), admin)

	in.Post("/collections", "collections.store", ctx.Wrap(collections.Store), admin)
	in.Put("/collections/{id}", "collections.update", ctx.Wrap(collections.Update), admin)
	in.Delete("/collections/{id}", "collections.destroy", ctx.Wrap(collections.Destroy), admin)
	in.Post("/collections/{id}/products", "collections.products.add", ctx.Wrap(collections.AddProduct), admin)
	in.Delete("/collections/{id}/products/{productId}", "collections.products.remove", ctx.Wrap(collections.RemoveProduct), admin)

	in.Post("/products", "products.store", ctx.Wrap(products.Store))
	in.Put("/products/{id}", "products.update", ctx.Wrap(products.Update))
	in.Delete("/products/{id}", "products.destroy", ctx.Wrap(products.Destroy))

	in.Post("/professional-types", "professional-types.store", ctx.Wrap(professionals.StoreType), admin)
	in.Put("/professional-types/{id}", "professional-types.update", ctx.Wrap(professionals.UpdateType), admin)
	in.Delete("/professional-types/{id}", "professional-types.destroy", ctx.Wrap(professionals.DestroyType), admin)

	in.Post("/professionals", "professionals.store", ctx.Wrap(professionals.Store))
	in.Put("/professionals/{id}", "professionals.update", ctx.Wrap(professionals.Update))
	in.Delete("/professionals/{id}", "professionals.destroy", ctx.Wrap(professionals.Destroy))

	in.Post("/service-categories", "service-categories.store", ctx.Wrap(svc.StoreCategory), admin)
	in.Put("/service-categories/{id}", "service-categories.update", ctx.Wrap(svc.UpdateCategory), admin)
	in.Delete("/service-categories/{id}", "service-categories.destroy", ctx.Wrap(svc.DestroyCategory), admin)

	in.Post("/services", "services.store", ctx.Wrap(svc.Store))
	in.Put("/services/{id}", "services.update", ctx.Wrap(svc.Update))
	in.Delete("/services/{id}", "services.destroy", ctx.Wrap(svc.Destroy))

	in.Get("/bookings", "bookings.index", ctx.Wrap(bookings.Index))
	in.Get("/bookings/{id}", "bookings.show", ctx.Wrap(bookings.Show))
	in.Post("/bookings", "bookings.store", ctx.Wrap(bookings.Store))
	in.Put("/bookings/{id}/status", "bookings.status", ctx.Wrap(bookings.UpdateStatus))

	in.Get("/cart", "cart.index", ctx.Wrap(cart.Index))
	in.Post("/cart", "cart.store", ctx.Wrap(cart.Store))
	in.Put("/cart/{id}", "cart.update", ctx.Wrap(cart.Update))
	in.Delete("/cart/{id}", "cart.destroy", ctx.Wrap(cart.Destroy))
	in.Delete("/cart", "cart.clear", ctx.Wrap(cart.Clear))

	in.Get("/addresses", "addresses.index", ctx.Wrap(addresses.Index))
	in.Post("/addresses", "addresses.store", ctx.Wrap(addresses.Store))
	in.Put("/addresses/{id}", "addresses.update", ctx.Wrap(addresses.Update))
	in.Put("/addresses/{id}/default", "addresses.default", ctx.Wrap(addresses.SetDefault))
	in.Delete("/addresses/{id}", "addresses.destroy", ctx.Wrap(addresses.Destroy))

	in.Post("/orders", "orders.checkout", ctx.Wrap(orders.Checkout))
	in.Get("/orders", "orders.index", ctx.Wrap(orders.Index))
	in.Get("/orders/{id}", "orders.show", ctx.Wrap(orders.Show))
	in.Put("/orders/{id}/status", "orders.status", ctx.Wrap(orders.UpdateStatus))

	in.Post("/reviews", "reviews.store", ctx.Wrap(reviews.Store))
	in.Delete("/reviews/{id}", "reviews.destroy", ctx.Wrap(reviews.Destroy))

	in.Post("/blogs", "blogs.store", ctx.Wrap(blogs.Store))
	in.Put("/blogs/{id}", "blogs.update", ctx.Wrap(blogs.Update))
	in.Delete("/blogs/{id}", "blogs.destroy", ctx.Wrap(blogs.Destroy))

	in.Post("/reports", "reports.store", ctx.Wrap(reports.Store))
	in.Post("/uploads", "uploads.store", ctx.Wrap(uploads.Store))

	adm := api.Group("/admin", middleware.Auth, admin)
	adm.Get("/dashboard/stats", "admin.dashboard", ctx.Wrap(dashboard.Stats))
	adm.Get("/audit-logs", "admin.audit-logs", ctx.Wrap(audit.Index))
	adm.Get("/reports", "admin.reports.index", ctx.Wrap(reports.Index))
	adm.Put("/reports/{id}", "admin.reports.update", ctx.Wrap(reports.Update))
	adm.Get("/settings", "admin.settings.index", ctx.Wrap(settings.Index))
	adm.Put("/settings/{key}", "admin.settings.upsert", ctx.Wrap(settings.Upsert), super)
	adm.Delete("/settings/{key}", "admin.settings.destroy", ctx.Wrap(settings.Destroy), super)
	adm.Put("/products/{id}/showcase", "admin.products.showcase", ctx.Wrap(products.SetShowcase), super)
	if d.Live != nil {
		adm.Get("/live", "admin.live", d.Live.ServeHTTP)
		adm.Get("/live/stream", "admin.live.stream", sse.Handler(d.Live, 25*time.Second))
	}
}
