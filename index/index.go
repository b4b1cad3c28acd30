package index

import (
	"github.com/jonwraymond/sqlanalytics/resource"
)

// Set is a collection of resource URIs.
type Set map[string]struct{}

// Contains reports whether uri is in the set.
func (s Set) Contains(uri string) bool {
	_, ok := s[uri]
	return ok
}

// Intersect returns the intersection of s and other.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set, len(small))
	for uri := range small {
		if large.Contains(uri) {
			out[uri] = struct{}{}
		}
	}
	return out
}

// Union returns the union of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for uri := range s {
		out[uri] = struct{}{}
	}
	for uri := range other {
		out[uri] = struct{}{}
	}
	return out
}

// Index holds inverted maps from tag, category, and type to URI sets.
// Not safe for concurrent use; the owning registry synchronizes access.
type Index struct {
	byTag      map[string]Set
	byCategory map[resource.Category]Set
	byType     map[resource.Type]Set
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		byTag:      make(map[string]Set),
		byCategory: make(map[resource.Category]Set),
		byType:     make(map[resource.Type]Set),
	}
}

// Add registers the resource's tags, category, and type.
func (ix *Index) Add(r *resource.Resource) {
	for _, tag := range r.Tags {
		addTo(ix.byTag, tag, r.URI)
	}
	addTo(ix.byCategory, r.Category, r.URI)
	addTo(ix.byType, r.Type, r.URI)
}

// Remove drops the resource from every inverted map. Empty sets are
// deleted so the maps do not accumulate dead keys.
func (ix *Index) Remove(r *resource.Resource) {
	for _, tag := range r.Tags {
		removeFrom(ix.byTag, tag, r.URI)
	}
	removeFrom(ix.byCategory, r.Category, r.URI)
	removeFrom(ix.byType, r.Type, r.URI)
}

// ByTag returns the URI set for a tag. The returned set is live; callers
// must copy before mutating or releasing the registry lock.
func (ix *Index) ByTag(tag string) Set {
	return ix.byTag[tag]
}

// ByCategory returns the URI set for a category.
func (ix *Index) ByCategory(c resource.Category) Set {
	return ix.byCategory[c]
}

// ByType returns the URI set for a resource type.
func (ix *Index) ByType(t resource.Type) Set {
	return ix.byType[t]
}

// Tags returns the number of distinct indexed tags.
func (ix *Index) Tags() int {
	return len(ix.byTag)
}

func addTo[K comparable](m map[K]Set, key K, uri string) {
	set, ok := m[key]
	if !ok {
		set = make(Set)
		m[key] = set
	}
	set[uri] = struct{}{}
}

func removeFrom[K comparable](m map[K]Set, key K, uri string) {
	set, ok := m[key]
	if !ok {
		return
	}
	delete(set, uri)
	if len(set) == 0 {
		delete(m, key)
	}
}
