package shop

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the Postgres Store.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, domain, accessToken, scope string) (*Shop, error) {
	const q = `
INSERT INTO shops (shop_domain, access_token, scope, status)
VALUES ($1, $2, $3, 'active')
ON CONFLICT (shop_domain) DO UPDATE SET
  access_token = EXCLUDED.access_token,
  scope = CASE WHEN EXCLUDED.scope = '' THEN shops.scope ELSE EXCLUDED.scope END,
  status = 'active',
  updated_at = NOW()
RETURNING id::text, shop_domain, access_token, scope, status, installed_at
`
	return scanShop(r.db.QueryRow(ctx, q, domain, accessToken, scope))
}

func (r *Repository) FindByDomain(ctx context.Context, domain string) (*Shop, error) {
	const q = `
SELECT id::text, shop_domain, access_token, scope, status, installed_at
FROM shops
WHERE shop_domain = $1
`
	return scanShop(r.db.QueryRow(ctx, q, domain))
}

func (r *Repository) DeleteByDomain(ctx context.Context, domain string) error {
	const q = `DELETE FROM shops WHERE shop_domain = $1`
	tag, err := r.db.Exec(ctx, q, domain)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close is a no-op; the pool belongs to the caller.
func (r *Repository) Close() error { return nil }

func scanShop(row pgx.Row) (*Shop, error) {
	s := &Shop{}
	if err := row.Scan(&s.ID, &s.Domain, &s.AccessToken, &s.Scope, &s.Status, &s.InstalledAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
