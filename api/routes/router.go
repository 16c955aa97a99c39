package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wangpython/gogroupbuy-backend/api/controllers"
	"github.com/wangpython/gogroupbuy-backend/api/middleware"
	"github.com/wangpython/gogroupbuy-backend/internal/auth"
	"github.com/wangpython/gogroupbuy-backend/internal/customers"
	"github.com/wangpython/gogroupbuy-backend/internal/notifications"
	"github.com/wangpython/gogroupbuy-backend/internal/orders"
	"github.com/wangpython/gogroupbuy-backend/internal/products"
	"github.com/wangpython/gogroupbuy-backend/pkg/config"
	"github.com/wangpython/gogroupbuy-backend/pkg/db"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	authService auth.Service,
	customersService customers.Service,
	productsService products.Service,
	ordersService orders.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			merchantOnly := middleware.RequireRole(enums.RoleMerchant.String(), logg)

			r.Route("/users", func(r chi.Router) {
				r.With(merchantOnly).Get("/orders", controllers.ListOrdersByPhone(ordersService, logg))

				r.Route("/{userid}", func(r chi.Router) {
					r.Put("/", controllers.UpdateUserProfile(customersService, logg))
					r.With(merchantOnly).Put("/blacklist", controllers.AdjustUserBlacklist(customersService, logg))
					r.Get("/orders", controllers.ListUserOrders(ordersService, logg))
				})
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(productsService, logg))
				r.With(merchantOnly).Post("/", controllers.CreateProduct(productsService, logg))

				r.Route("/{id}", func(r chi.Router) {
					r.With(merchantOnly).Put("/quantity", controllers.UpdateProductQuantity(productsService, logg))
					r.With(merchantOnly).Put("/arrival", controllers.UpdateProductArrival(productsService, logg))
					r.With(merchantOnly).Put("/statementdate", controllers.UpdateProductStatementDate(productsService, logg))
					r.With(merchantOnly).Post("/orders/notify", controllers.NotifyProductOrders(notificationsService, logg))
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.CreateOrder(ordersService, logg))
				r.With(merchantOnly).Get("/", controllers.ListStoreOrders(ordersService, logg))
				r.With(merchantOnly).Patch("/{id}/receive", controllers.MarkOrderReceived(ordersService, logg))
			})
		})
	})

	return r
}
