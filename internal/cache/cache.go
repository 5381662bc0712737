package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// TenderListKey is the cache key for a company's decorated tender list.
// Mutating endpoints must Del it.
func TenderListKey(companyID string) string {
	return "tenders:" + companyID
}
