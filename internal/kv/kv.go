// Package kv provides the key-value persistence adapter behind the
// transaction store. The store serializes its whole collection as one JSON
// blob under a fixed key; this package only moves opaque strings and holds
// no business rules.
package kv

import "context"

// Store is the persistence port. Get reports (value, found, error): a
// missing key is not an error, it means an empty collection upstream.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
