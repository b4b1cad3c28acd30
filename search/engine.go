package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jonwraymond/sqlanalytics/registry"
	"github.com/jonwraymond/sqlanalytics/resource"
)

// Source supplies candidate resources. *registry.Store implements it.
type Source interface {
	Candidates(registry.Filter) []resource.Resource
}

// Result is one page of search output. TotalCount is the number of
// matches before truncation to the limit.
type Result struct {
	Resources  []resource.Resource `json:"results"`
	TotalCount int                 `json:"total_count"`
}

// Engine evaluates queries against a Source. Safe for concurrent use.
type Engine struct {
	src     Source
	matcher *textMatcher
}

// NewEngine creates an Engine over the given source.
func NewEngine(src Source) *Engine {
	return &Engine{src: src, matcher: newTextMatcher()}
}

// Close releases the text matcher's index.
func (e *Engine) Close() error {
	return e.matcher.Close()
}

// Search evaluates the query and returns a sorted, truncated page along
// with the untruncated total count. Search never mutates registry state,
// so an abandoned call leaves nothing behind.
func (e *Engine) Search(ctx context.Context, q Query) (Result, error) {
	c, err := q.compile()
	if err != nil {
		return Result{}, err
	}

	candidates := e.src.Candidates(registry.Filter{
		Type:     resource.Type(q.ResourceType),
		Category: resource.Category(q.Category),
		Tags:     q.Tags,
		AnyTags:  q.AnyTags,
	})

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if text := strings.TrimSpace(q.Text); text != "" {
		matched, err := e.matcher.Match(text, candidates)
		if err != nil {
			return Result{}, err
		}
		kept := candidates[:0]
		for _, r := range candidates {
			if _, ok := matched[r.URI]; ok {
				kept = append(kept, r)
			}
		}
		candidates = kept
	}

	filtered := candidates[:0]
	for i := range candidates {
		if c.matches(&candidates[i]) {
			filtered = append(filtered, candidates[i])
		}
	}

	sortResources(filtered, c.sortBy, c.descending)

	total := len(filtered)
	if len(filtered) > c.limit {
		filtered = filtered[:c.limit]
	}
	return Result{Resources: filtered, TotalCount: total}, nil
}

// Popular returns the most frequently accessed resources.
func (e *Engine) Popular(ctx context.Context, limit int) (Result, error) {
	return e.Search(ctx, Query{
		MinAccessCount: 1,
		SortBy:         SortByAccessCount,
		SortOrder:      OrderDesc,
		Limit:          limit,
	})
}

// Recent returns the most recently created resources.
func (e *Engine) Recent(ctx context.Context, limit int) (Result, error) {
	return e.Search(ctx, Query{
		SortBy:    SortByCreatedAt,
		SortOrder: OrderDesc,
		Limit:     limit,
	})
}

// sortResources orders by the requested field with ties broken by URI
// ascending, independent of the requested order, for determinism.
func sortResources(rs []resource.Resource, field string, descending bool) {
	sort.Slice(rs, func(i, j int) bool {
		a, b := &rs[i], &rs[j]
		cmp := compareBy(a, b, field)
		if cmp == 0 {
			return a.URI < b.URI
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareBy(a, b *resource.Resource, field string) int {
	switch field {
	case SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortByAccessCount:
		return a.AccessCount - b.AccessCount
	case SortByLastAccessed:
		return timePtr(a.LastAccessed).Compare(timePtr(b.LastAccessed))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func timePtr(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
