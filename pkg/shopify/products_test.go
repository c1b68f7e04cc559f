package shopify

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProducts_DecodesVariantsExactly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/"+DefaultAPIVersion+"/products.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"products":[{"id":7,"title":"Hat","status":"active","created_at":"2024-01-02T03:04:05-05:00",
			"variants":[{"id":1,"product_id":7,"price":"19.99","compare_at_price":null},{"id":2,"product_id":7,"price":"9.10","compare_at_price":"12.00"}]}]}`)
	})

	products, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 1 || products[0].ID != 7 || len(products[0].Variants) != 2 {
		t.Fatalf("unexpected products %+v", products)
	}
	p := products[0]
	if !p.Variants[0].Price.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("unexpected price %s", p.Variants[0].Price)
	}
	if p.Variants[0].CompareAtPrice.Valid || !p.Variants[1].CompareAtPrice.Valid {
		t.Fatalf("compare_at_price null handling broken")
	}
	if got := p.MinPrice(); !got.Equal(decimal.RequireFromString("9.1")) {
		t.Fatalf("unexpected min price %s", got)
	}
}

func TestProduct_ByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/"+DefaultAPIVersion+"/products/7.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"product":{"id":7,"title":"Hat"}}`)
	})

	p, err := c.Product(context.Background(), 7)
	if err != nil || p.Title != "Hat" {
		t.Fatalf("unexpected product %+v err=%v", p, err)
	}
	if !p.MinPrice().IsZero() {
		t.Fatalf("expected zero min price without variants")
	}
}

func TestCreateWebhook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/api/"+DefaultAPIVersion+"/webhooks.json" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"webhook":{"id":99,"topic":"app/uninstalled","address":"https://x/y","format":"json"}}`)
	})

	wh, err := c.CreateWebhook(context.Background(), "app/uninstalled", "https://x/y")
	if err != nil {
		t.Fatalf("create webhook: %v", err)
	}
	if wh.ID != 99 {
		t.Fatalf("unexpected webhook %+v", wh)
	}
	if _, err := c.CreateWebhook(context.Background(), " ", "https://x/y"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestWebhooks_ListAndDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/api/"+DefaultAPIVersion+"/webhooks.json":
			_, _ = io.WriteString(w, `{"webhooks":[{"id":5,"topic":"app/uninstalled","address":"https://x/y","format":"json"}]}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/admin/api/"+DefaultAPIVersion+"/webhooks/5.json":
			_, _ = io.WriteString(w, `{}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	list, err := c.Webhooks(context.Background())
	if err != nil {
		t.Fatalf("webhooks: %v", err)
	}
	if len(list) != 1 || list[0].ID != 5 || list[0].Topic != "app/uninstalled" {
		t.Fatalf("unexpected webhooks %+v", list)
	}

	ok, err := c.DeleteWebhook(context.Background(), 5)
	if err != nil || !ok {
		t.Fatalf("delete webhook: ok=%v err=%v", ok, err)
	}
	ok, err = c.DeleteWebhook(context.Background(), 6)
	if err != nil || ok {
		t.Fatalf("expected false for missing webhook: ok=%v err=%v", ok, err)
	}
}
