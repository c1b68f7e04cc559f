package api

import (
	"context"

	"shopifyadmin/internal/shop"
)

type ctxKey string

const (
	ctxKeyShop      ctxKey = "shop"
	ctxKeyRequestID ctxKey = "request_id"
)

func WithShop(ctx context.Context, s *shop.Shop) context.Context {
	return context.WithValue(ctx, ctxKeyShop, s)
}

func ShopFromContext(ctx context.Context) *shop.Shop {
	s, _ := ctx.Value(ctxKeyShop).(*shop.Shop)
	return s
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}
