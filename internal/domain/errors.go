package domain

import (
	"errors"
	"fmt"
)

// ConfigError reports a missing or invalid setting, e.g. an absent API key.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration %s is not set", e.Key)
}

// NetworkError reports an unreachable endpoint or, when StatusCode is set, a
// non-success response from an endpoint that has no richer error body.
type NetworkError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the generative-language endpoint.
type APIError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api error %d: %s", e.Service, e.StatusCode, e.Body)
}

// StreamError reports a response body that could not be read to the end.
type StreamError struct {
	Service string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: reading stream: %v", e.Service, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ErrorKind names the category of an adapter error for logs and metrics.
func ErrorKind(err error) string {
	var (
		cfgErr    *ConfigError
		netErr    *NetworkError
		apiErr    *APIError
		streamErr *StreamError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return "config"
	case errors.As(err, &apiErr):
		return "api"
	case errors.As(err, &streamErr):
		return "stream"
	case errors.As(err, &netErr):
		return "network"
	default:
		return "unknown"
	}
}
