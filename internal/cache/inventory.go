package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ModKeyPrefix    = "mod:%s"
	SourceKeyPrefix = "source:%s"
	CategoryListKey = "categories"
)

const (
	ModTTL      = 10 * time.Minute
	SourceTTL   = 30 * time.Minute
	CategoryTTL = 30 * time.Minute
)

func ModKey(url string) string {
	return fmt.Sprintf(ModKeyPrefix, url)
}

func SourceKey(url string) string {
	return fmt.Sprintf(SourceKeyPrefix, url)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateMod(ctx context.Context, url string) {
	Invalidate(ctx, ModKey(url))
}

func InvalidateSource(ctx context.Context, url string) {
	Invalidate(ctx, SourceKey(url))
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoryListKey)
}
