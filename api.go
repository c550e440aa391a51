package dyndns

import (
	"context"
	"fmt"
	"net/netip"
)

// Resolver learns the machine's current public IP address.
type Resolver interface {
	Resolve(context.Context) (netip.Addr, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(context.Context) (netip.Addr, error)

func (f ResolverFunc) Resolve(ctx context.Context) (netip.Addr, error) { return f(ctx) }

// Updater applies one DNS record update against the provider.
// Implementations perform exactly one network operation per call and never
// retry internally; a failed entry is retried naturally on the next cycle
// because its batch does not commit.
type Updater interface {
	Apply(ctx context.Context, entry RecordEntry, ip netip.Addr) (response []byte, err error)
}

// UpdaterFunc adapts a function to the Updater interface.
type UpdaterFunc func(context.Context, RecordEntry, netip.Addr) ([]byte, error)

func (f UpdaterFunc) Apply(ctx context.Context, entry RecordEntry, ip netip.Addr) ([]byte, error) {
	return f(ctx, entry, ip)
}

// APIError reports a non-success response from a record update endpoint.
// The raw body is kept for verbose logging.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("update failed with code: %d", e.StatusCode)
}
