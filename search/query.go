package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/sqlanalytics/registry"
	"github.com/jonwraymond/sqlanalytics/resource"
)

// DefaultLimit caps result pages when the query does not set one.
const DefaultLimit = 50

// Sortable fields.
const (
	SortByCreatedAt    = "created_at"
	SortByName         = "name"
	SortByAccessCount  = "access_count"
	SortByLastAccessed = "last_accessed"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query is a structured search request. All fields are optional and
// combine with logical AND.
type Query struct {
	Text           string   `json:"query,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	AnyTags        []string `json:"any_tags,omitempty"`
	Category       string   `json:"category,omitempty"`
	ResourceType   string   `json:"resource_type,omitempty"`
	CreatedAfter   string   `json:"created_after,omitempty"`
	CreatedBefore  string   `json:"created_before,omitempty"`
	MinAccessCount int      `json:"min_access_count,omitempty"`
	SortBy         string   `json:"sort_by,omitempty"`
	SortOrder      string   `json:"sort_order,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

// compiled is a validated query with parsed bounds.
type compiled struct {
	Query
	createdAfter  *time.Time
	createdBefore *time.Time
	sortBy        string
	descending    bool
	limit         int
}

// compile validates the query and parses its date bounds. Violations
// fail with registry.ErrInvalidQuery.
func (q Query) compile() (compiled, error) {
	c := compiled{Query: q, sortBy: SortByCreatedAt, descending: true, limit: DefaultLimit}

	if q.SortBy != "" {
		switch q.SortBy {
		case SortByCreatedAt, SortByName, SortByAccessCount, SortByLastAccessed:
			c.sortBy = q.SortBy
		default:
			return compiled{}, fmt.Errorf("%w: unknown sort field %q", registry.ErrInvalidQuery, q.SortBy)
		}
	}

	switch strings.ToLower(q.SortOrder) {
	case "", OrderDesc:
		c.descending = true
	case OrderAsc:
		c.descending = false
	default:
		return compiled{}, fmt.Errorf("%w: unknown sort order %q", registry.ErrInvalidQuery, q.SortOrder)
	}

	if q.Limit < 0 {
		return compiled{}, fmt.Errorf("%w: negative limit %d", registry.ErrInvalidQuery, q.Limit)
	}
	if q.Limit > 0 {
		c.limit = q.Limit
	}

	var err error
	if c.createdAfter, err = parseBound(q.CreatedAfter); err != nil {
		return compiled{}, fmt.Errorf("%w: created_after: %v", registry.ErrInvalidQuery, err)
	}
	if c.createdBefore, err = parseBound(q.CreatedBefore); err != nil {
		return compiled{}, fmt.Errorf("%w: created_before: %v", registry.ErrInvalidQuery, err)
	}

	return c, nil
}

// parseBound accepts RFC 3339 timestamps or bare dates.
func parseBound(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q", s)
	}
	return &t, nil
}

// matches applies the scan-phase filters: date range and access count.
// Index-backed filters were already applied during candidate selection.
func (c compiled) matches(r *resource.Resource) bool {
	if c.createdAfter != nil && r.CreatedAt.Before(*c.createdAfter) {
		return false
	}
	if c.createdBefore != nil && !r.CreatedAt.Before(*c.createdBefore) {
		return false
	}
	if c.MinAccessCount > 0 && r.AccessCount < c.MinAccessCount {
		return false
	}
	return true
}
