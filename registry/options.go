package registry

import (
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is applied to new resources when no TTL is supplied.
const DefaultTTL = 24 * time.Hour

// Option configures a Store.
type Option func(*Store)

// WithDefaultTTL sets the TTL applied when Put receives none.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.defaultTTL = ttl
	}
}

// WithClock overrides the time source. Tests use this to drive a virtual
// clock through expiry scenarios.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.clock = now
	}
}

// WithAllocator overrides URI allocation.
func WithAllocator(a Allocator) Option {
	return func(s *Store) {
		s.alloc = a
	}
}

// WithMaxEntries bounds the number of live resources. When the bound is
// reached, Put evicts the least-recently-accessed resource (falling back
// to creation time for never-accessed records). Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		s.maxEntries = n
	}
}

// WithLogger attaches a zap logger. The default is a nop logger so the
// store stays quiet inside library consumers.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}
