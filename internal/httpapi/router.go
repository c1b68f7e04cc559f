package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"shopifyadmin/internal/api"
	"shopifyadmin/internal/auth"
	"shopifyadmin/internal/metrics"
	"shopifyadmin/internal/products"
	"shopifyadmin/internal/shop"
	"shopifyadmin/internal/webhook"
	"shopifyadmin/pkg/config"
	"shopifyadmin/pkg/shopify"
)

type Dependencies struct {
	Cfg      config.Config
	Shops    shop.Store
	Clients  shopify.Factory
	Log      *zap.Logger
	Gatherer prometheus.Gatherer
}

func NewRouter(deps Dependencies) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(api.RequestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	authHandlers := auth.Handlers{
		Cfg:     deps.Cfg,
		Shops:   deps.Shops,
		Clients: deps.Clients,
		Log:     log,
	}
	productHandlers := products.Handlers{Clients: deps.Clients, Log: log}
	webhookHandler := webhook.Handler{
		Cfg:   deps.Cfg,
		Shops: deps.Shops,
		Log:   log,
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/auth/install", authHandlers.Install)
		r.Get("/auth/callback", authHandlers.Callback)

		// Shop-scoped reads. Prod requires an embedded session token; dev accepts X-Shop-Domain.
		r.Group(func(r chi.Router) {
			r.Use(api.ShopifySessionAuth(deps.Cfg, deps.Shops, log))

			r.Get("/products", productHandlers.List)
			r.Get("/products/{id}", productHandlers.Get)
		})

		r.Post("/webhooks/shopify/{topic}", webhookHandler.ServeHTTP)
	})

	return r
}
