// Package registry provides the process-wide resource store for the
// analytics server.
//
// The Store assigns stable URIs to heterogeneous artifacts (tables,
// charts, ML results, schemas), tracks metadata and access statistics,
// enforces TTL-based logical expiration, and keeps the metadata index in
// lockstep with every mutation.
//
// # Lifecycle
//
// A resource is created by Put, mutated only by Get's access bookkeeping
// and by an explicit Touch or Update, and destroyed by Sweep or Delete.
// Expiration is lazy: a record whose expiry has passed is invisible to
// Get and to search candidates immediately, and Sweep reclaims it
// physically on demand.
//
// # Concurrency
//
// All mutations execute under a single mutex guarding the record map and
// the index together, so no reader observes the pair in an inconsistent
// intermediate state. Returned records are copies; payloads are immutable
// post-creation and shared without copying.
//
// # Usage
//
//	store := registry.NewStore(registry.WithDefaultTTL(24 * time.Hour))
//
//	res, err := store.Put(registry.PutRequest{
//	    Type:     resource.TypeTable,
//	    Name:     "monthly revenue",
//	    Tags:     []string{"revenue", "monthly"},
//	    Category: resource.CategoryAnalytics,
//	    Payload:  &resource.TablePayload{Columns: []string{"month", "total"}},
//	})
//
//	got, err := store.Get(res.URI) // bumps access statistics
package registry
