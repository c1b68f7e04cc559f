package products

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopifyadmin/internal/api"
	"shopifyadmin/internal/shop"
	"shopifyadmin/pkg/shopify"
)

func setup(t *testing.T, upstream http.HandlerFunc) (http.Handler, *shop.Shop) {
	t.Helper()
	srv := httptest.NewTLSServer(upstream)
	t.Cleanup(srv.Close)

	s := &shop.Shop{ID: "1", Domain: strings.TrimPrefix(srv.URL, "https://"), AccessToken: "shpat_test"}
	h := Handlers{
		Clients: shopify.Factory{APIKey: "key", APISecret: "secret", Options: []shopify.Option{shopify.WithHTTPClient(srv.Client())}},
		Log:     zap.NewNop(),
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(api.WithShop(r.Context(), s)))
		})
	})
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Get)
	return r, s
}

func TestList_ProxiesProducts(t *testing.T) {
	r, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Shopify-Access-Token") != "shpat_test" {
			t.Fatalf("missing access token header")
		}
		if !strings.HasSuffix(r.URL.Path, "/products.json") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"products":[{"id":7,"title":"Hat","variants":[{"id":1,"price":"12.50"}]}]}`)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Items []shopify.Product `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ID != 7 || out.Items[0].MinPrice().String() != "12.5" {
		t.Fatalf("unexpected items %+v", out.Items)
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	r, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"products":[]}`)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	if strings.TrimSpace(rec.Body.String()) != `{"items":[]}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestList_UpstreamErrorIsBadGateway(t *testing.T) {
	r, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errors":"[API] Invalid API key or access token"}`)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "status 401") {
		t.Fatalf("expected upstream status in body, got %s", rec.Body.String())
	}
}

func TestGet_NotFound(t *testing.T) {
	r, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errors":"Not Found"}`)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/99", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGet_InvalidID(t *testing.T) {
	r, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("upstream should not be called")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestList_MissingShop(t *testing.T) {
	h := Handlers{Log: zap.NewNop()}
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
