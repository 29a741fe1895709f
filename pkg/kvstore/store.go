// Package kvstore provides the string key/value storage that backs shopper state.
//
// Each shopper owns a handful of keys (cart, wishlist, reviews). Values are opaque
// JSON documents written whole on every mutation.
package kvstore

import (
	"context"
	"strings"
)

const (
	keyNamespace  = "sf"
	shopperPrefix = "shopper"

	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyReviews  = "reviews"
)

// Store is a synchronous string key/value store. Every method may fail; callers
// decide whether a failure is surfaced.
type Store interface {
	// Get returns found=false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// ShopperKey namespaces a state key to one shopper: sf:shopper:<id>:<name>.
func ShopperKey(shopperID, name string) string {
	parts := []string{keyNamespace, shopperPrefix}
	for _, part := range []string{shopperID, name} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ":")
}
