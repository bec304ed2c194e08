package domain

import (
	"context"
	"errors"
)

// WeatherFetcher retrieves raw weather text for a place name.
type WeatherFetcher interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// ResponseComposer turns the user's text, and the weather text if any, into
// an assistant reply. An empty weatherText means no weather data.
type ResponseComposer interface {
	Compose(ctx context.Context, userText, weatherText string) (string, error)
}

// ErrKeyNotFound is returned by KVStore.Get for keys that were never set.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the durable string key/value storage behind the session store.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
