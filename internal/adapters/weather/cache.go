package weather

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

// CachedFetcher memoises successful lookups per location for a fixed TTL.
// Failures go straight back to the caller and are retried next time.
type CachedFetcher struct {
	next  domain.WeatherFetcher
	cache *cache.Cache
}

func NewCachedFetcher(next domain.WeatherFetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (f *CachedFetcher) Fetch(ctx context.Context, location string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(location))

	if v, found := f.cache.Get(key); found {
		observability.LoggerFromContext(ctx).Debug("weather cache hit", "location", location)
		return v.(string), nil
	}

	text, err := f.next.Fetch(ctx, location)
	if err != nil {
		return "", err
	}

	f.cache.Set(key, text, cache.DefaultExpiration)
	return text, nil
}
