package index

import (
	"testing"

	"github.com/jonwraymond/sqlanalytics/resource"
)

func rec(uri string, tags ...string) *resource.Resource {
	return &resource.Resource{
		URI:      uri,
		Type:     resource.TypeTable,
		Tags:     tags,
		Category: resource.CategoryData,
	}
}

func TestAddAndLookup(t *testing.T) {
	ix := New()
	a := rec("resource://tables/a", "sales", "q1")
	b := rec("resource://tables/b", "sales")
	ix.Add(a)
	ix.Add(b)

	if got := ix.ByTag("sales"); len(got) != 2 {
		t.Errorf("expected 2 URIs under 'sales', got %d", len(got))
	}
	if got := ix.ByTag("q1"); !got.Contains(a.URI) || len(got) != 1 {
		t.Errorf("expected only %s under 'q1', got %v", a.URI, got)
	}
	if got := ix.ByType(resource.TypeTable); len(got) != 2 {
		t.Errorf("expected 2 URIs by type, got %d", len(got))
	}
	if got := ix.ByCategory(resource.CategoryData); len(got) != 2 {
		t.Errorf("expected 2 URIs by category, got %d", len(got))
	}
	if got := ix.ByTag("missing"); len(got) != 0 {
		t.Errorf("expected empty set for unknown tag, got %v", got)
	}
}

func TestRemoveCleansEmptySets(t *testing.T) {
	ix := New()
	a := rec("resource://tables/a", "solo")
	ix.Add(a)
	ix.Remove(a)

	if got := ix.ByTag("solo"); len(got) != 0 {
		t.Errorf("expected tag set to be gone, got %v", got)
	}
	if n := ix.Tags(); n != 0 {
		t.Errorf("expected 0 indexed tags, got %d", n)
	}
	// Removing again is harmless.
	ix.Remove(a)
}

func TestSetOps(t *testing.T) {
	a := Set{"x": {}, "y": {}}
	b := Set{"y": {}, "z": {}}

	inter := a.Intersect(b)
	if len(inter) != 1 || !inter.Contains("y") {
		t.Errorf("expected intersection {y}, got %v", inter)
	}

	union := a.Union(b)
	if len(union) != 3 {
		t.Errorf("expected union of 3, got %v", union)
	}

	empty := a.Intersect(Set{})
	if len(empty) != 0 {
		t.Errorf("expected empty intersection, got %v", empty)
	}
}
