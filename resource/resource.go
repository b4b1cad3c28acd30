package resource

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Type identifies the kind of artifact a resource holds.
type Type string

// The closed set of resource types.
const (
	TypeSchema Type = "schema"
	TypeTable  Type = "table"
	TypeChart  Type = "chart"
	TypeML     Type = "ml"
)

// Valid reports whether t is a member of the closed type set.
func (t Type) Valid() bool {
	switch t {
	case TypeSchema, TypeTable, TypeChart, TypeML:
		return true
	}
	return false
}

// Plural returns the URI path segment for the type. Producers address
// resources as resource://<plural>/<id>.
func (t Type) Plural() string {
	if t == TypeML {
		return "ml"
	}
	return string(t) + "s"
}

// Types returns all valid resource types in stable order.
func Types() []Type {
	return []Type{TypeSchema, TypeTable, TypeChart, TypeML}
}

// Category classifies a resource for discovery.
type Category string

// The closed set of categories.
const (
	CategoryInfrastructure Category = "infrastructure"
	CategoryData           Category = "data"
	CategoryVisualization  Category = "visualization"
	CategoryAnalytics      Category = "analytics"
	CategoryGeneral        Category = "general"
)

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryInfrastructure, CategoryData, CategoryVisualization,
		CategoryAnalytics, CategoryGeneral:
		return true
	}
	return false
}

// Resource is the unit of storage in the registry.
//
// URI, Type, and CreatedAt are immutable once assigned. AccessCount and
// LastAccessed change only through registry Get bookkeeping; Name and
// Description only through explicit update. The payload is immutable
// post-creation, which makes it safe to hand out without copying.
type Resource struct {
	URI         string
	Type        Type
	Name        string
	Description string
	Tags        []string
	Category    Category
	Payload     Payload

	CreatedAt    time.Time
	ExpiresAt    *time.Time // nil means the resource never expires
	AccessCount  int
	LastAccessed *time.Time // nil until the first Get
}

// Expired reports whether the resource is logically absent at now.
// A resource whose expiry has passed must not surface from Get or Search
// even if it has not been physically evicted yet.
func (r *Resource) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}

// Validate checks the fields the registry enforces on creation.
func (r *Resource) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("unknown resource type %q", r.Type)
	}
	if r.Category != "" && !r.Category.Valid() {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	return nil
}

// Clone returns a deep copy of the record's mutable metadata. The payload
// is shared: it is immutable after creation.
func (r *Resource) Clone() Resource {
	out := *r
	out.Tags = append([]string(nil), r.Tags...)
	if r.ExpiresAt != nil {
		t := *r.ExpiresAt
		out.ExpiresAt = &t
	}
	if r.LastAccessed != nil {
		t := *r.LastAccessed
		out.LastAccessed = &t
	}
	return out
}

// HasAllTags reports whether the resource's tag set is a superset of tags.
func (r *Resource) HasAllTags(tags []string) bool {
	set := r.tagSet()
	for _, tag := range tags {
		if _, ok := set[normalizeTag(tag)]; !ok {
			return false
		}
	}
	return true
}

// HasAnyTag reports whether the resource holds at least one of tags.
func (r *Resource) HasAnyTag(tags []string) bool {
	set := r.tagSet()
	for _, tag := range tags {
		if _, ok := set[normalizeTag(tag)]; ok {
			return true
		}
	}
	return false
}

func (r *Resource) tagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Tags))
	for _, tag := range r.Tags {
		set[normalizeTag(tag)] = struct{}{}
	}
	return set
}

// NormalizeTags trims, lowercases, and de-duplicates tags while preserving
// first-seen order for display.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		norm := normalizeTag(tag)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// SortedTags returns the tags in lexical order, for stable serialization
// of derived values (fingerprints, doc text).
func SortedTags(tags []string) []string {
	out := append([]string(nil), tags...)
	sort.Strings(out)
	return out
}
