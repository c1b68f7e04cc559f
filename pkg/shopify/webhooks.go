package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type Webhook struct {
	ID      int64  `json:"id,omitempty"`
	Topic   string `json:"topic"`
	Address string `json:"address"`
	Format  string `json:"format,omitempty"`
}

type webhookCreateRequest struct {
	Webhook Webhook `json:"webhook"`
}

// CreateWebhook subscribes address to topic (e.g. "app/uninstalled") in JSON format.
func (c *Client) CreateWebhook(ctx context.Context, topic string, address string) (*Webhook, error) {
	topic = strings.TrimSpace(topic)
	address = strings.TrimSpace(address)
	if topic == "" || address == "" {
		return nil, fmt.Errorf("missing topic or address")
	}

	req := webhookCreateRequest{
		Webhook: Webhook{
			Topic:   topic,
			Address: address,
			Format:  "json",
		},
	}
	var wh Webhook
	if err := c.PostInto(ctx, "webhooks", req, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

func (c *Client) Webhooks(ctx context.Context) ([]Webhook, error) {
	var out []Webhook
	if err := c.GetInto(ctx, "webhooks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteWebhook reports whether Shopify removed the subscription (2xx); an unknown id
// yields false.
func (c *Client) DeleteWebhook(ctx context.Context, id int64) (bool, error) {
	resp, err := c.Call(ctx, http.MethodDelete, "webhooks/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return false, err
	}
	return resp.OK(), nil
}
