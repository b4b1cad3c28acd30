package registry

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jonwraymond/sqlanalytics/resource"
)

// Allocator generates collision-free URIs per resource type. Pure
// generation: no error conditions, no side effects beyond internal state.
type Allocator interface {
	Allocate(t resource.Type) string
}

// UUIDAllocator issues resource://<plural-type>/<uuid> identifiers backed
// by random 128-bit UUIDs, matching the external URI contract. Consumers
// treat the opaque id as unparseable.
type UUIDAllocator struct{}

// Allocate returns a new URI for the given type.
func (UUIDAllocator) Allocate(t resource.Type) string {
	return FormatURI(t, uuid.NewString())
}

// FormatURI builds a resource URI from a type and an opaque id.
func FormatURI(t resource.Type, id string) string {
	return fmt.Sprintf("resource://%s/%s", t.Plural(), id)
}
