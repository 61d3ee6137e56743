package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendorahq/vendora-backend/api/controllers"
	"github.com/vendorahq/vendora-backend/api/middleware"
	"github.com/vendorahq/vendora-backend/internal/baskets"
	"github.com/vendorahq/vendora-backend/internal/catalog"
	"github.com/vendorahq/vendora-backend/internal/contacts"
	"github.com/vendorahq/vendora-backend/internal/importjobs"
	"github.com/vendorahq/vendora-backend/internal/orders"
	"github.com/vendorahq/vendora-backend/pkg/config"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

// NewRouter wires the HTTP surface: health probes, the public catalog, and
// the authenticated buyer and partner areas.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	pubsubP controllers.Pinger,
	catalogService catalog.Service,
	importService importjobs.Service,
	basketService baskets.Service,
	orderService orders.Service,
	contactService contacts.Service,
	notificationsStore controllers.NotificationsStore,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, logg, dbP, redisP, pubsubP))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/categories", controllers.ListCategories(catalogService, logg))
		r.Get("/shops", controllers.ListShops(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/partner", func(r chi.Router) {
				r.Post("/update", controllers.PartnerSubmitImport(importService, logg))
				r.Get("/imports", controllers.PartnerImportList(importService, logg))
				r.Get("/import/{jobId}", controllers.PartnerImportStatus(importService, logg))
				r.Get("/state", controllers.PartnerShopStatus(catalogService, logg))
				r.Post("/state", controllers.PartnerSetShopState(catalogService, logg))
				r.Get("/orders", controllers.PartnerOrders(orderService, logg))
			})

			r.Route("/basket", func(r chi.Router) {
				r.Get("/", controllers.BasketFetch(basketService, logg))
				r.Post("/", controllers.BasketAdd(basketService, logg))
				r.Put("/", controllers.BasketUpdate(basketService, logg))
				r.Delete("/", controllers.BasketRemove(basketService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.PlaceOrder(orderService, logg))
				r.Get("/", controllers.OrdersList(orderService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Post("/", controllers.ContactCreate(contactService, logg))
				r.Get("/", controllers.ContactList(contactService, logg))
				r.Put("/{contactId}", controllers.ContactUpdate(contactService, logg))
				r.Delete("/{contactId}", controllers.ContactDelete(contactService, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(notificationsStore, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsStore, logg))
			})
		})
	})

	return r
}
