package shopify

import (
	"net/url"
	"testing"
)

func TestVerifyOAuthHMAC(t *testing.T) {
	q := url.Values{}
	q.Set("code", "0907a61c0c8d55e99db179b68161bc00")
	q.Set("shop", "some-shop.myshopify.com")
	q.Set("state", "0.6784241404160823")
	q.Set("timestamp", "1337178173")
	q.Set("hmac", SignQuery(q, "hush"))

	if !VerifyOAuthHMAC(q, "hush") {
		t.Fatalf("expected valid hmac")
	}
	if VerifyOAuthHMAC(q, "other") {
		t.Fatalf("expected mismatch with wrong secret")
	}

	q.Set("shop", "evil.myshopify.com")
	if VerifyOAuthHMAC(q, "hush") {
		t.Fatalf("expected mismatch after tampering")
	}
}

func TestVerifyOAuthHMAC_MissingParts(t *testing.T) {
	q := url.Values{"shop": {"a.myshopify.com"}}
	if VerifyOAuthHMAC(q, "hush") {
		t.Fatalf("expected false without hmac")
	}
	q.Set("hmac", SignQuery(q, "hush"))
	if VerifyOAuthHMAC(q, "") {
		t.Fatalf("expected false without secret")
	}
}

func TestSignQuery_IgnoresSignatureAndOrder(t *testing.T) {
	a := url.Values{"b": {"2"}, "a": {"1"}, "signature": {"x"}}
	b := url.Values{"a": {"1"}, "b": {"2"}}
	if SignQuery(a, "s") != SignQuery(b, "s") {
		t.Fatalf("signature param or key order changed the hmac")
	}
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"id":1}`)
	sig := SignWebhook(body, "whsec")

	if !VerifyWebhook(body, sig, "whsec") {
		t.Fatalf("expected valid signature")
	}
	if VerifyWebhook([]byte(`{"id":2}`), sig, "whsec") {
		t.Fatalf("expected invalid signature for different body")
	}
	if VerifyWebhook(body, "", "whsec") || VerifyWebhook(body, sig, "") {
		t.Fatalf("expected false with missing header or secret")
	}
}
