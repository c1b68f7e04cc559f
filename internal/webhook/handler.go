package webhook

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopifyadmin/internal/api"
	"shopifyadmin/internal/shop"
	"shopifyadmin/pkg/config"
	"shopifyadmin/pkg/shopify"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Cfg   config.Config
	Shops shop.Store
	Log   *zap.Logger
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Prefer Shopify's topic header; fall back to the route param.
	topic := strings.TrimSpace(r.Header.Get("X-Shopify-Topic"))
	if topic == "" {
		topic = chi.URLParam(r, "topic")
	}
	topic = NormalizeTopic(topic)

	shopDomain := shopify.NormalizeShopDomain(r.Header.Get("X-Shopify-Shop-Domain"))
	webhookID := strings.TrimSpace(r.Header.Get("X-Shopify-Webhook-Id"))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid body")
		return
	}

	if !shopify.VerifyWebhook(body, strings.TrimSpace(r.Header.Get("X-Shopify-Hmac-Sha256")), h.Cfg.Shopify.WebhookSigningSecret()) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid webhook signature")
		return
	}

	log := h.Log.With(zap.String("shop", shopDomain), zap.String("topic", topic), zap.String("webhook_id", webhookID))

	switch topic {
	case TopicAppUninstalled, TopicShopRedact:
		// The token is revoked on uninstall; forget it.
		if err := h.Shops.DeleteByDomain(r.Context(), shopDomain); err != nil && !errors.Is(err, shop.ErrNotFound) {
			// Non-2xx makes Shopify retry the delivery.
			log.Error("delete shop failed", zap.Error(err))
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete shop")
			return
		}
		log.Info("shop removed")
	case TopicCustomersDataRequest, TopicCustomersRedact:
		// No customer data is stored.
		log.Info("privacy webhook acknowledged")
	default:
		log.Debug("webhook ignored")
	}

	// Shopify expects a 200 quickly.
	w.WriteHeader(http.StatusOK)
}
