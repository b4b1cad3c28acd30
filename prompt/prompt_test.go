package prompt

import (
	"errors"
	"sort"
	"testing"
)

func TestListIsSortedAndComplete(t *testing.T) {
	m := NewManager()

	prompts := m.List()
	if len(prompts) != 5 {
		t.Fatalf("expected 5 built-in prompts, got %d", len(prompts))
	}

	names := make([]string, 0, len(prompts))
	for _, p := range prompts {
		names = append(names, p.Name)
		if p.Description == "" || p.Template == "" {
			t.Errorf("prompt %s missing description or template", p.Name)
		}
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("expected name order, got %v", names)
	}
}

func TestGet(t *testing.T) {
	m := NewManager()

	p, err := m.Get("explore_table")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Name != "explore_table" {
		t.Errorf("unexpected prompt: %+v", p)
	}

	_, err = m.Get("does_not_exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
