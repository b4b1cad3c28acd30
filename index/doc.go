// Package index maintains secondary indexes over the live resource set.
//
// The Index maps each tag, category, and resource type to the set of URIs
// currently holding it, so lookups cost O(matching set) rather than a scan
// of every resource. It is updated synchronously with store mutations and
// must never be observably stale relative to the store.
//
// # Synchronization
//
// Index carries no lock of its own. The registry mutates the store map and
// the index inside a single critical section, so a reader never observes a
// store/index pair in an inconsistent intermediate state. Using Index
// outside the registry requires external synchronization.
//
// # Usage
//
//	idx := index.New()
//	idx.Add(res)
//	uris := idx.ByTag("users")
//	idx.Remove(res)
package index
