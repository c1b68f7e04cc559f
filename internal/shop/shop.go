package shop

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("shop not found")

// Shop is an installed store and the offline access token issued for it.
type Shop struct {
	ID          string    `json:"id"`
	Domain      string    `json:"domain"`
	AccessToken string    `json:"access_token"`
	Scope       string    `json:"scope"`
	Status      string    `json:"status"`
	InstalledAt time.Time `json:"installed_at"`
}

// Store persists shops by domain.
type Store interface {
	Upsert(ctx context.Context, domain, accessToken, scope string) (*Shop, error)
	FindByDomain(ctx context.Context, domain string) (*Shop, error)
	DeleteByDomain(ctx context.Context, domain string) error
	Close() error
}
