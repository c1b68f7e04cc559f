package products

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopifyadmin/internal/api"
	"shopifyadmin/pkg/shopify"
)

// Handlers proxy product reads to the Admin API using the calling shop's stored token.
type Handlers struct {
	Clients shopify.Factory
	Log     *zap.Logger
}

type listResponse struct {
	Items []shopify.Product `json:"items"`
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	s := api.ShopFromContext(r.Context())
	if s == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing shop identity")
		return
	}

	c := h.Clients.New(s.Domain, shopify.WithAccessToken(s.AccessToken))
	items, err := c.Products(r.Context())
	if err != nil {
		h.upstreamError(w, r, s.Domain, err)
		return
	}
	if items == nil {
		items = []shopify.Product{}
	}
	api.WriteJSON(w, http.StatusOK, listResponse{Items: items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	s := api.ShopFromContext(r.Context())
	if s == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing shop identity")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid product id")
		return
	}

	c := h.Clients.New(s.Domain, shopify.WithAccessToken(s.AccessToken))
	p, err := c.Product(r.Context(), id)
	if err != nil {
		h.upstreamError(w, r, s.Domain, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func (h Handlers) upstreamError(w http.ResponseWriter, r *http.Request, shopDomain string, err error) {
	log := h.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Warn("shopify products request failed",
		zap.String("request_id", api.RequestIDFromContext(r.Context())),
		zap.String("shop", shopDomain),
		zap.Error(err),
	)

	var apiErr *shopify.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "product not found")
	case errors.As(err, &apiErr):
		api.WriteError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "shopify returned status "+strconv.Itoa(apiErr.StatusCode))
	case errors.Is(err, shopify.ErrMissingAccessToken):
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "shop has no access token")
	default:
		api.WriteError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "shopify request failed")
	}
}
