package shopify

// Factory builds per-shop clients that share app credentials and options.
type Factory struct {
	APIKey    string
	APISecret string
	Options   []Option
}

func (f Factory) New(shop string, opts ...Option) *Client {
	all := make([]Option, 0, len(f.Options)+len(opts))
	all = append(all, f.Options...)
	all = append(all, opts...)
	return New(shop, f.APIKey, f.APISecret, all...)
}
