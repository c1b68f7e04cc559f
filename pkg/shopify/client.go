package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultAPIVersion is used until SetAPIVersion or WithAPIVersion says otherwise.
const DefaultAPIVersion = "2025-10"

const defaultTimeout = 20 * time.Second

const (
	headerAccessToken = "X-Shopify-Access-Token"
	headerStatusCode  = "Status-Code"
)

// ErrMissingAccessToken is returned by Admin API calls made before an access token is set.
var ErrMissingAccessToken = errors.New("shopify: missing access token")

// Observer is notified after every Admin API round trip.
type Observer interface {
	ObserveRequest(method, resource string, status int, elapsed time.Duration, err error)
}

// Client talks to the Admin REST API of a single shop.
// It is safe for concurrent use; the access token and API version are read under a lock
// and applied per request.
type Client struct {
	shop      string
	apiKey    string
	apiSecret string

	mu          sync.RWMutex
	accessToken string
	apiVersion  string

	httpClient *http.Client
	timeout    time.Duration
	rest       *resty.Client

	log      *zap.Logger
	observer Observer
}

type Option func(*Client)

func WithAccessToken(token string) Option {
	return func(c *Client) { c.accessToken = strings.TrimSpace(token) }
}

func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(version); v != "" {
			c.apiVersion = v
		}
	}
}

// WithHTTPClient makes the client send requests through hc (custom transport, test servers).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New builds a client for shop. A bare shop name ("my-store") is expanded to
// "my-store.myshopify.com"; a full domain is used as given.
func New(shop, apiKey, apiSecret string, opts ...Option) *Client {
	c := &Client{
		shop:       NormalizeShopDomain(shop),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		apiVersion: DefaultAPIVersion,
		timeout:    defaultTimeout,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.rest = resty.NewWithClient(c.httpClient)
	} else {
		c.rest = resty.New()
	}
	c.rest.SetTimeout(c.timeout)
	return c
}

// NormalizeShopDomain trims scheme and trailing slashes and appends ".myshopify.com"
// to bare shop names.
func NormalizeShopDomain(shop string) string {
	s := strings.ToLower(strings.TrimSpace(shop))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimRight(s, "/")
	if s != "" && !strings.Contains(s, ".") {
		s += ".myshopify.com"
	}
	return s
}

func (c *Client) Shop() string { return c.shop }

// SetAccessToken stores the token sent as X-Shopify-Access-Token on every later call.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = strings.TrimSpace(token)
	c.mu.Unlock()
}

// SetAPIVersion switches the Admin API version for later calls. A blank version restores
// DefaultAPIVersion.
func (c *Client) SetAPIVersion(version string) {
	v := strings.TrimSpace(version)
	if v == "" {
		v = DefaultAPIVersion
	}
	c.mu.Lock()
	c.apiVersion = v
	c.mu.Unlock()
}

func (c *Client) APIVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiVersion
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// formatRequestURI maps a resource path such as "/products" or "orders/1.json" to its
// Admin API URL. One leading slash is dropped and ".json" is appended exactly once.
func (c *Client) formatRequestURI(resource string) string {
	resource = strings.TrimPrefix(resource, "/")
	resource = strings.TrimSuffix(resource, ".json")
	return fmt.Sprintf("https://%s/admin/api/%s/%s.json", c.shop, c.APIVersion(), resource)
}

// Response is the raw result of an Admin API call.
type Response struct {
	StatusCode int
	// Header holds the response headers plus a synthetic Status-Code entry.
	Header http.Header
	Body   []byte
}

// Status reads the Status-Code entry back from Header; 0 when missing or not a number.
func (r *Response) Status() int {
	if r == nil || r.Header == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.Header.Get(headerStatusCode)))
	if err != nil {
		return 0
	}
	return n
}

// OK reports a 2xx Status-Code.
func (r *Response) OK() bool { return statusOK(r.Status()) }

// Call performs one Admin API request. GET sends payload as query parameters, DELETE sends
// no payload, every other verb sends it as a JSON body.
func (c *Client) Call(ctx context.Context, method, resource string, payload any) (*Response, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	token := c.token()
	if token == "" {
		return nil, ErrMissingAccessToken
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeader(headerAccessToken, token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	switch method {
	case http.MethodGet:
		q, err := queryValues(payload)
		if err != nil {
			return nil, fmt.Errorf("shopify: %s %s: %w", method, resource, err)
		}
		req.SetQueryParamsFromValues(q)
	case http.MethodDelete:
	default:
		if payload != nil {
			req.SetBody(payload)
		}
	}

	start := time.Now()
	resp, err := req.Execute(method, c.formatRequestURI(resource))
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	if c.observer != nil {
		c.observer.ObserveRequest(method, resource, status, elapsed, err)
	}
	if err != nil {
		c.log.Warn("shopify call failed",
			zap.String("shop", c.shop),
			zap.String("method", method),
			zap.String("resource", resource),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, fmt.Errorf("shopify: %s %s: %w", method, resource, err)
	}
	c.log.Debug("shopify call",
		zap.String("shop", c.shop),
		zap.String("method", method),
		zap.String("resource", resource),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)

	header := resp.Header().Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(headerStatusCode, strconv.Itoa(status))

	return &Response{
		StatusCode: status,
		Header:     header,
		Body:       resp.Body(),
	}, nil
}

// Get calls GET and unwraps the single top-level resource, e.g. {"products":[...]} yields the
// slice. A response carrying a non-empty "errors" key is returned as the decoded object.
// Bodies that are not JSON are returned as the raw string.
func (c *Client) Get(ctx context.Context, resource string, params any) (any, error) {
	resp, err := c.Call(ctx, http.MethodGet, resource, params)
	if err != nil {
		return nil, err
	}
	return unwrap(resp.Body), nil
}

func (c *Client) Post(ctx context.Context, resource string, payload any) (any, error) {
	resp, err := c.Call(ctx, http.MethodPost, resource, payload)
	if err != nil {
		return nil, err
	}
	return unwrap(resp.Body), nil
}

func (c *Client) Put(ctx context.Context, resource string, payload any) (any, error) {
	resp, err := c.Call(ctx, http.MethodPut, resource, payload)
	if err != nil {
		return nil, err
	}
	return unwrap(resp.Body), nil
}

// Delete reports whether the response carried a non-zero Status-Code. Any answered status
// counts, including 4xx; use Call and Response.OK to tell a 2xx apart.
func (c *Client) Delete(ctx context.Context, resource string) (bool, error) {
	resp, err := c.Call(ctx, http.MethodDelete, resource, nil)
	if err != nil {
		return false, err
	}
	return resp.Status() != 0, nil
}

// GetInto decodes the unwrapped resource into out. API errors and non-2xx responses come
// back as *APIError.
func (c *Client) GetInto(ctx context.Context, resource string, params any, out any) error {
	resp, err := c.Call(ctx, http.MethodGet, resource, params)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

func (c *Client) PostInto(ctx context.Context, resource string, payload any, out any) error {
	resp, err := c.Call(ctx, http.MethodPost, resource, payload)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

func (c *Client) PutInto(ctx context.Context, resource string, payload any, out any) error {
	resp, err := c.Call(ctx, http.MethodPut, resource, payload)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

func statusOK(code int) bool {
	return code >= 200 && code < 300
}
