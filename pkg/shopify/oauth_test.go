package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInstallURL(t *testing.T) {
	c := New("store", "key", "secret")

	got := c.InstallURL("read_products", "https://app.example.com/callback")
	want := "https://store.myshopify.com/admin/oauth/authorize?client_id=key&scope=read_products&redirect_uri=https%3A%2F%2Fapp.example.com%2Fcallback"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if !strings.Contains(got, "client_id=key&scope=read_products&redirect_uri=https%3A%2F%2Fapp.example.com%2Fcallback") {
		t.Fatalf("query parameters out of order: %q", got)
	}
}

func TestInstallURL_NoRedirectURI(t *testing.T) {
	c := New("store.myshopify.com", "key", "secret")

	got := c.InstallURL("read_products,write_orders", "")
	if strings.Contains(got, "redirect_uri") {
		t.Fatalf("unexpected redirect_uri in %q", got)
	}
	if got != "https://store.myshopify.com/admin/oauth/authorize?client_id=key&scope=read_products,write_orders" {
		t.Fatalf("unexpected scope encoding in %q", got)
	}
}

func TestInstallURL_EscapesScopeValues(t *testing.T) {
	c := New("store", "key", "secret")

	got := c.InstallURL(" read_products, write_orders&x ", "")
	if !strings.HasSuffix(got, "scope=read_products,write_orders%26x") {
		t.Fatalf("unexpected scope encoding in %q", got)
	}
}

func TestRedirectToInstall(t *testing.T) {
	c := New("store", "key", "secret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/install", nil)

	u := c.RedirectToInstall(rec, req, "read_products", "https://app.example.com/callback")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != u {
		t.Fatalf("location %q does not match returned url %q", loc, u)
	}
}

func TestAccessToken_ExchangesCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/oauth/access_token" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["client_id"] != "key" || body["client_secret"] != "secret" || body["code"] != "abc" {
			t.Fatalf("unexpected exchange body %v", body)
		}
		_, _ = io.WriteString(w, `{"access_token":"shpat_1","scope":"read_products"}`)
	})
	c.SetAccessToken("")

	tok, err := c.AccessToken(context.Background(), "abc")
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if tok != "shpat_1" {
		t.Fatalf("unexpected token %q", tok)
	}

	_, scope, err := c.ExchangeAccessToken(context.Background(), "abc")
	if err != nil || scope != "read_products" {
		t.Fatalf("unexpected scope %q err=%v", scope, err)
	}
}

func TestAccessToken_ReturnsStoredToken(t *testing.T) {
	c := New("store", "key", "secret", WithAccessToken("stored"))

	tok, err := c.AccessToken(context.Background(), "")
	if err != nil || tok != "stored" {
		t.Fatalf("expected stored token, got %q err=%v", tok, err)
	}
}

func TestAccessToken_Failures(t *testing.T) {
	t.Run("missing access_token", func(t *testing.T) {
		c := newTestClient(t, jsonHandler(`{"scope":"read_products"}`))
		c.SetAccessToken("")
		if _, err := c.AccessToken(context.Background(), "abc"); !errors.Is(err, ErrEmptyAccessToken) {
			t.Fatalf("expected ErrEmptyAccessToken, got %v", err)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_request"}`, http.StatusBadRequest)
		})
		c.SetAccessToken("")
		if _, err := c.AccessToken(context.Background(), "abc"); err == nil {
			t.Fatalf("expected error on 400")
		}
	})

	t.Run("missing code", func(t *testing.T) {
		c := New("store", "key", "secret")
		if _, err := c.AccessToken(context.Background(), " "); err == nil {
			t.Fatalf("expected error for empty code")
		}
	})
}
