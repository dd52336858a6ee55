// Package kv implements the repositories on top of a key-value store.
// Each collection is a JSON array kept under "<namespace>_<collection>".
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/infrastructure/kvstore"
)

const (
	customersCollection = "customers"
	billsCollection     = "bills"
	settingsCollection  = "settings"
	idempotencyPrefix   = "idempotency"
)

// DB is the handle shared by the key-value repositories. One mutex guards
// every read-modify-write so a cascade over two collections is not interleaved.
type DB struct {
	store     kvstore.Store
	namespace string
	mu        sync.Mutex
	now       func() time.Time
}

// Open binds a store to a namespace
func Open(store kvstore.Store, namespace string) *DB {
	if namespace == "" {
		namespace = "khatri_alankar"
	}
	return &DB{store: store, namespace: namespace, now: time.Now}
}

func (db *DB) key(collection string) string {
	return db.namespace + "_" + collection
}

func load[T any](ctx context.Context, db *DB, collection string) ([]T, error) {
	data, err := db.store.Get(ctx, db.key(collection))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return items, nil
}

func save[T any](ctx context.Context, db *DB, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	if err := db.store.Set(ctx, db.key(collection), data, 0); err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	return nil
}

// stored strips the fields derived on read before a customer is written
func storedCustomer(c entity.Customer) entity.Customer {
	c.TotalBills = 0
	c.TotalDues = 0
	return c
}

func storedBill(b entity.Bill) entity.Bill {
	b.Customer = nil
	return b
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func customerMatches(c *entity.Customer, term string) bool {
	if containsFold(c.Name, term) || containsFold(c.Address, term) {
		return true
	}
	for _, p := range c.Phones {
		if containsFold(p, term) {
			return true
		}
	}
	return false
}
