package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"phonestore-backend/api/controllers"
	"phonestore-backend/api/middleware"
	"phonestore-backend/internal/cart"
	"phonestore-backend/internal/catalog"
	"phonestore-backend/internal/inventory"
	"phonestore-backend/internal/notes"
	"phonestore-backend/internal/orders"
	"phonestore-backend/pkg/config"
	"phonestore-backend/pkg/logger"
	pkgredis "phonestore-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Catalog   catalog.Service
	Cart      cart.Service
	Orders    orders.Service
	Inventory inventory.Service
	Notes     notes.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		deps := map[string]controllers.Pinger{"database": dbPinger}
		if redisClient != nil {
			deps["redis"] = redisClient
		}
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(svcs.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Post("/", controllers.CartAddItem(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Put("/{lineId}", controllers.CartSetQuantity(svcs.Cart, logg))
			r.Delete("/{lineId}", controllers.CartRemoveItem(svcs.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Put("/{orderId}/status", controllers.OrderTransition(svcs.Orders, logg))
			r.Post("/{orderId}/notes", controllers.OrderNoteCreate(svcs.Notes, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/transactions", controllers.InventoryTxList(svcs.Inventory, logg))
			r.Post("/transactions", controllers.InventoryTxCreate(svcs.Inventory, logg))
			r.Get("/summary", controllers.InventorySummary(svcs.Inventory, logg))
			r.Put("/variants/{variantId}/stock", controllers.InventorySetStock(svcs.Inventory, logg))
		})
	})

	return r
}
