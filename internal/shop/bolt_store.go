package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const shopBucket = "shops"

// BoltStore is a single-file Store for local development.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

func OpenBolt(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(shopBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

func (b *BoltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *BoltStore) Upsert(_ context.Context, domain, accessToken, scope string) (*Shop, error) {
	var out *Shop
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(shopBucket))
		if bucket == nil {
			return fmt.Errorf("shop bucket missing")
		}

		s := &Shop{}
		if raw := bucket.Get([]byte(domain)); raw != nil {
			if err := json.Unmarshal(raw, s); err != nil {
				return fmt.Errorf("decode shop %s: %w", domain, err)
			}
		} else {
			s.ID = uuid.NewString()
			s.Domain = domain
			s.InstalledAt = b.now().UTC()
		}
		s.AccessToken = accessToken
		if scope != "" {
			s.Scope = scope
		}
		s.Status = "active"

		raw, err := json.Marshal(s)
		if err != nil {
			return err
		}
		out = s
		return bucket.Put([]byte(domain), raw)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BoltStore) FindByDomain(_ context.Context, domain string) (*Shop, error) {
	var out *Shop
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(shopBucket))
		if bucket == nil {
			return fmt.Errorf("shop bucket missing")
		}
		raw := bucket.Get([]byte(domain))
		if raw == nil {
			return ErrNotFound
		}
		s := &Shop{}
		if err := json.Unmarshal(raw, s); err != nil {
			return fmt.Errorf("decode shop %s: %w", domain, err)
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BoltStore) DeleteByDomain(_ context.Context, domain string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(shopBucket))
		if bucket == nil {
			return fmt.Errorf("shop bucket missing")
		}
		if bucket.Get([]byte(domain)) == nil {
			return ErrNotFound
		}
		return bucket.Delete([]byte(domain))
	})
}
