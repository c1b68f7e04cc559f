package shopify

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	BodyHTML    string    `json:"body_html,omitempty"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Status      string    `json:"status"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Variants    []Variant `json:"variants"`
}

// Variant prices arrive as decimal strings ("19.99"); decimal.Decimal keeps them exact.
type Variant struct {
	ID                int64               `json:"id"`
	ProductID         int64               `json:"product_id"`
	Title             string              `json:"title"`
	SKU               string              `json:"sku"`
	Price             decimal.Decimal     `json:"price"`
	CompareAtPrice    decimal.NullDecimal `json:"compare_at_price"`
	InventoryQuantity int                 `json:"inventory_quantity"`
}

// Products lists the shop's products (first page, Shopify's default limit).
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.GetInto(ctx, "products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.GetInto(ctx, "products/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MinPrice returns the cheapest variant price, or zero for a product without variants.
func (p Product) MinPrice() decimal.Decimal {
	if len(p.Variants) == 0 {
		return decimal.Zero
	}
	lowest := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price.LessThan(lowest) {
			lowest = v.Price
		}
	}
	return lowest
}
