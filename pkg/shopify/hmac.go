package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// VerifyOAuthHMAC checks the hmac parameter Shopify adds to OAuth callback and app proxy
// query strings. The message is every other parameter, sorted by key, joined as k=v with &.
func VerifyOAuthHMAC(values url.Values, apiSecret string) bool {
	given := values.Get("hmac")
	if given == "" || apiSecret == "" {
		return false
	}
	expected := SignQuery(values, apiSecret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(given)))
}

// SignQuery computes the hex HMAC-SHA256 Shopify expects for values, ignoring any hmac and
// signature parameters already present.
func SignQuery(values url.Values, apiSecret string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range values[k] {
			parts = append(parts, escapeHMACPart(k)+"="+escapeHMACPart(v))
		}
	}

	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func escapeHMACPart(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	return strings.ReplaceAll(s, "&", "%26")
}

// VerifyWebhook checks X-Shopify-Hmac-Sha256, base64(HMAC_SHA256(secret, body)).
func VerifyWebhook(body []byte, hmacHeader string, secret string) bool {
	if hmacHeader == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(SignWebhook(body, secret)), []byte(hmacHeader))
}

func SignWebhook(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
