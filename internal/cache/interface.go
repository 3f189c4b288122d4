package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const CategoryKeyPrefix = "categories"

// ActiveCategoriesKey holds the storefront category list.
var ActiveCategoriesKey = Key(CategoryKeyPrefix, "active")
