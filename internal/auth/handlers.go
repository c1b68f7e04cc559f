package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"shopifyadmin/internal/api"
	"shopifyadmin/internal/shop"
	"shopifyadmin/pkg/config"
	"shopifyadmin/pkg/shopify"
)

const stateCookie = "oauth_state"

type Handlers struct {
	Cfg     config.Config
	Shops   shop.Store
	Clients shopify.Factory
	Log     *zap.Logger
}

// Install starts OAuth: it sets a state cookie and redirects the merchant to the shop's
// authorize page.
func (h Handlers) Install(w http.ResponseWriter, r *http.Request) {
	shopDomain := shopify.NormalizeShopDomain(r.URL.Query().Get("shop"))
	if shopDomain == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing shop")
		return
	}

	state := randomHex(16)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.IsProd(),
	})

	c := h.Clients.New(shopDomain)
	u := c.InstallURL(h.Cfg.Shopify.Scopes, h.Cfg.Shopify.RedirectURL) + "&state=" + state
	http.Redirect(w, r, u, http.StatusFound)
}

// Callback finishes OAuth: state and HMAC checks, code exchange, token persistence and
// uninstall webhook registration.
func (h Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	shopDomain := shopify.NormalizeShopDomain(qs.Get("shop"))
	code := strings.TrimSpace(qs.Get("code"))

	if shopDomain == "" || code == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing shop or code")
		return
	}

	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || c.Value != qs.Get("state") {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid oauth state")
		return
	}
	// One use per state.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.IsProd(),
	})

	if !shopify.VerifyOAuthHMAC(qs, h.Cfg.Shopify.APISecret) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid hmac")
		return
	}

	client := h.Clients.New(shopDomain)
	token, scope, err := client.ExchangeAccessToken(r.Context(), code)
	if err != nil {
		h.Log.Warn("token exchange failed", zap.String("shop", shopDomain), zap.Error(err))
		api.WriteError(w, http.StatusBadGateway, "UPSTREAM", "token exchange failed")
		return
	}

	if _, err := h.Shops.Upsert(r.Context(), shopDomain, token, scope); err != nil {
		h.Log.Error("save shop failed", zap.String("shop", shopDomain), zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to save shop")
		return
	}
	h.Log.Info("shop installed", zap.String("shop", shopDomain), zap.String("scope", scope))

	if base := strings.TrimRight(strings.TrimSpace(h.Cfg.PublicBaseURL), "/"); base != "" {
		client.SetAccessToken(token)
		if _, err := client.CreateWebhook(r.Context(), "app/uninstalled", base+"/v1/webhooks/shopify/app_uninstalled"); err != nil {
			h.Log.Warn("webhook register failed", zap.String("shop", shopDomain), zap.String("topic", "app/uninstalled"), zap.Error(err))
		}
	}

	_, _ = w.Write([]byte("installed"))
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
