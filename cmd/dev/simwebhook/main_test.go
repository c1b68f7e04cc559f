package main

import "testing"

func TestDefaultURL(t *testing.T) {
	cases := map[string]string{
		":8081":          "http://localhost:8081/v1/webhooks/shopify/app_uninstalled",
		"127.0.0.1:9000": "http://127.0.0.1:9000/v1/webhooks/shopify/app_uninstalled",
	}
	for addr, want := range cases {
		if got := defaultURL(addr, "app_uninstalled"); got != want {
			t.Fatalf("defaultURL(%q) = %q, want %q", addr, got, want)
		}
	}
}
