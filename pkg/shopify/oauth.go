package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// ErrEmptyAccessToken means the token exchange succeeded but carried no access_token.
var ErrEmptyAccessToken = errors.New("shopify token exchange returned empty access_token")

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// AccessToken returns the stored token, or exchanges the authorization code from the OAuth
// callback for a new one. The exchanged token is not stored; call SetAccessToken with it.
func (c *Client) AccessToken(ctx context.Context, code string) (string, error) {
	if t := c.token(); t != "" {
		return t, nil
	}
	tok, _, err := c.ExchangeAccessToken(ctx, code)
	return tok, err
}

// ExchangeAccessToken trades an authorization code for an offline access token and the
// granted scope.
func (c *Client) ExchangeAccessToken(ctx context.Context, code string) (string, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", "", fmt.Errorf("shopify token exchange: missing code")
	}

	u := fmt.Sprintf("https://%s/admin/oauth/access_token", c.shop)
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(map[string]string{
			"client_id":     c.apiKey,
			"client_secret": c.apiSecret,
			"code":          code,
		}).
		Post(u)
	if err != nil {
		return "", "", fmt.Errorf("shopify token exchange: %w", err)
	}
	if !statusOK(resp.StatusCode()) {
		c.log.Warn("shopify token exchange rejected", zap.String("shop", c.shop), zap.Int("status", resp.StatusCode()))
		return "", "", fmt.Errorf("shopify token exchange failed: status=%d", resp.StatusCode())
	}

	var r accessTokenResponse
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return "", "", fmt.Errorf("shopify token exchange: decode: %w", err)
	}
	if r.AccessToken == "" {
		return "", "", ErrEmptyAccessToken
	}
	return r.AccessToken, r.Scope, nil
}

// InstallURL builds the authorize URL merchants visit to install the app. permissions is
// the comma separated scope list; redirectURI is omitted when empty.
func (c *Client) InstallURL(permissions, redirectURI string) string {
	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(c.shop)
	b.WriteString("/admin/oauth/authorize?client_id=")
	b.WriteString(url.QueryEscape(c.apiKey))
	b.WriteString("&scope=")
	b.WriteString(escapeScope(permissions))
	if redirectURI = strings.TrimSpace(redirectURI); redirectURI != "" {
		b.WriteString("&redirect_uri=")
		b.WriteString(url.QueryEscape(redirectURI))
	}
	return b.String()
}

// escapeScope query-escapes each scope but keeps the separating commas literal.
func escapeScope(permissions string) string {
	parts := strings.Split(strings.TrimSpace(permissions), ",")
	for i, p := range parts {
		parts[i] = url.QueryEscape(strings.TrimSpace(p))
	}
	return strings.Join(parts, ",")
}

// RedirectToInstall answers r with a 302 to the install URL and returns that URL.
func (c *Client) RedirectToInstall(w http.ResponseWriter, r *http.Request, permissions, redirectURI string) string {
	u := c.InstallURL(permissions, redirectURI)
	http.Redirect(w, r, u, http.StatusFound)
	return u
}
