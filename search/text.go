package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/jonwraymond/sqlanalytics/resource"
)

// textDoc is what gets indexed per resource for free-text matching.
type textDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Extra       string `json:"extra"`
}

// textMatcher answers free-text queries over a resource snapshot. It
// keeps a mem-only bleve index cached by document-set fingerprint and
// rebuilds only when the snapshot changes.
type textMatcher struct {
	mu          sync.Mutex
	idx         bleve.Index
	fingerprint string
	docs        map[string]textDoc // uri -> indexed doc, for substring scans
}

func newTextMatcher() *textMatcher {
	return &textMatcher{}
}

// Close releases the cached index.
func (m *textMatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idx == nil {
		return nil
	}
	err := m.idx.Close()
	m.idx = nil
	m.fingerprint = ""
	m.docs = nil
	return err
}

// Match returns the set of URIs among candidates whose doc text matches
// the query, by bleve token match or by case-insensitive substring.
func (m *textMatcher) Match(query string, candidates []resource.Resource) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureIndex(candidates); err != nil {
		return nil, err
	}

	matched := make(map[string]struct{})

	mq := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(mq)
	req.Size = len(candidates)
	res, err := m.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	for _, hit := range res.Hits {
		matched[hit.ID] = struct{}{}
	}

	// Substring pass catches partial-word matches the analyzer tokenizes
	// away, e.g. "rev" against "revenue".
	needle := strings.ToLower(query)
	for uri, doc := range m.docs {
		if _, ok := matched[uri]; ok {
			continue
		}
		haystack := strings.ToLower(doc.Name + "\n" + doc.Description + "\n" + doc.Tags + "\n" + doc.Extra)
		if strings.Contains(haystack, needle) {
			matched[uri] = struct{}{}
		}
	}

	return matched, nil
}

// ensureIndex rebuilds the bleve index when the candidate set changed.
func (m *textMatcher) ensureIndex(candidates []resource.Resource) error {
	fp := computeFingerprint(candidates)
	if m.idx != nil && fp == m.fingerprint {
		return nil
	}

	if m.idx != nil {
		_ = m.idx.Close()
		m.idx = nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return fmt.Errorf("create text index: %w", err)
	}

	docs := make(map[string]textDoc, len(candidates))
	batch := idx.NewBatch()
	for i := range candidates {
		doc := docFor(&candidates[i])
		docs[candidates[i].URI] = doc
		if err := batch.Index(candidates[i].URI, doc); err != nil {
			_ = idx.Close()
			return fmt.Errorf("index %s: %w", candidates[i].URI, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("apply text index batch: %w", err)
	}

	m.idx = idx
	m.fingerprint = fp
	m.docs = docs
	return nil
}

// docFor serializes a resource's searchable text. Table resources also
// expose their SQL text and column names, so a search for a column hits
// the snapshot that produced it.
func docFor(r *resource.Resource) textDoc {
	doc := textDoc{
		Name:        r.Name,
		Description: r.Description,
		Tags:        strings.Join(r.Tags, " "),
	}
	if table, ok := r.Payload.(*resource.TablePayload); ok {
		doc.Extra = table.SQLQuery + " " + strings.Join(table.Columns, " ")
	}
	return doc
}
