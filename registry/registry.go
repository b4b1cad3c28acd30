package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonwraymond/sqlanalytics/index"
	"github.com/jonwraymond/sqlanalytics/resource"
)

// Store owns the mapping from URI to resource record and the metadata
// index over it. All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]*resource.Resource
	issued  map[string]struct{} // every URI ever handed out; never reissued
	idx     *index.Index

	alloc      Allocator
	clock      func() time.Time
	defaultTTL time.Duration
	maxEntries int
	logger     *zap.Logger
}

// NewStore creates an empty Store with the given options.
func NewStore(opts ...Option) *Store {
	s := &Store{
		records:    make(map[string]*resource.Resource),
		issued:     make(map[string]struct{}),
		idx:        index.New(),
		alloc:      UUIDAllocator{},
		clock:      time.Now,
		defaultTTL: DefaultTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutRequest describes a resource to create.
type PutRequest struct {
	Type        resource.Type
	Name        string
	Description string
	Tags        []string
	Category    resource.Category
	Payload     resource.Payload

	// TTL overrides the store default when non-nil. A zero or negative
	// TTL creates a resource that is already expired.
	TTL *time.Duration

	// NoExpiry creates a resource with a null expiry that only an
	// explicit Delete removes.
	NoExpiry bool
}

// Put allocates a URI, stamps timestamps, inserts the record, and
// registers it in the index, all in one atomic step. It returns a copy of
// the stored record including the generated URI.
func (s *Store) Put(req PutRequest) (resource.Resource, error) {
	if !req.Type.Valid() {
		return resource.Resource{}, fmt.Errorf("%w: unknown resource type %q", ErrInvalidInput, req.Type)
	}
	category := req.Category
	if category == "" {
		category = resource.CategoryGeneral
	}
	if !category.Valid() {
		return resource.Resource{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	rec := &resource.Resource{
		URI:         s.allocateLocked(req.Type),
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Tags:        resource.NormalizeTags(req.Tags),
		Category:    category,
		Payload:     req.Payload,
		CreatedAt:   now,
	}
	if !req.NoExpiry {
		ttl := s.defaultTTL
		if req.TTL != nil {
			ttl = *req.TTL
		}
		expires := now.Add(ttl)
		rec.ExpiresAt = &expires
	}

	if s.maxEntries > 0 {
		s.evictForCapacityLocked(now)
	}

	s.records[rec.URI] = rec
	s.idx.Add(rec)

	s.logger.Debug("resource stored",
		zap.String("uri", rec.URI),
		zap.String("type", string(rec.Type)),
		zap.Strings("tags", rec.Tags))

	return rec.Clone(), nil
}

// Get returns a copy of the record and atomically updates its access
// statistics. Unknown, deleted, and expired URIs fail with ErrNotFound.
func (s *Store) Get(uri string) (resource.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	rec, ok := s.records[uri]
	if !ok || rec.Expired(now) {
		return resource.Resource{}, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}

	rec.AccessCount++
	accessed := now
	rec.LastAccessed = &accessed

	return rec.Clone(), nil
}

// Peek returns a copy of the record without touching access statistics.
// Listing and rendering paths use it so that reads-for-display do not
// skew popularity ranking.
func (s *Store) Peek(uri string) (resource.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[uri]
	if !ok || rec.Expired(s.clock()) {
		return resource.Resource{}, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	return rec.Clone(), nil
}

// UpdateRequest mutates the explicitly updatable fields. Nil fields are
// left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
	Tags        []string
	Category    *resource.Category
}

// Update applies an explicit metadata update. Read operations never
// mutate these fields.
func (s *Store) Update(uri string, req UpdateRequest) (resource.Resource, error) {
	if req.Category != nil && !req.Category.Valid() {
		return resource.Resource{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *req.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[uri]
	if !ok || rec.Expired(s.clock()) {
		return resource.Resource{}, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}

	// Reindex through remove/add so tag and category sets stay exact.
	s.idx.Remove(rec)
	if req.Name != nil {
		rec.Name = *req.Name
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.Tags != nil {
		rec.Tags = resource.NormalizeTags(req.Tags)
	}
	if req.Category != nil {
		rec.Category = *req.Category
	}
	s.idx.Add(rec)

	return rec.Clone(), nil
}

// Touch extends a live resource's expiry to now+ttl. A zero ttl re-arms
// the store default.
func (s *Store) Touch(uri string, ttl time.Duration) (resource.Resource, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	rec, ok := s.records[uri]
	if !ok || rec.Expired(now) {
		return resource.Resource{}, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}

	expires := now.Add(ttl)
	rec.ExpiresAt = &expires
	return rec.Clone(), nil
}

// Delete removes a resource. Idempotent: deleting an absent URI is not an
// error.
func (s *Store) Delete(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(uri)
}

// DeleteByType removes every resource of the given type and returns the
// number removed.
func (s *Store) DeleteByType(t resource.Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	uris := make([]string, 0)
	for uri := range s.idx.ByType(t) {
		uris = append(uris, uri)
	}
	for _, uri := range uris {
		s.deleteLocked(uri)
	}
	return len(uris)
}

// Clear removes every resource and returns the number removed. Issued
// URIs stay tombstoned and are never reissued.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	for uri := range s.records {
		s.deleteLocked(uri)
	}
	return n
}

// Sweep physically removes all records whose expiry is at or before now
// and returns the count removed. Logical expiration does not depend on
// Sweep having run.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for uri, rec := range s.records {
		if rec.Expired(now) {
			s.deleteLocked(uri)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("swept expired resources", zap.Int("removed", removed))
	}
	return removed
}

// Len returns the number of live (non-expired) resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	n := 0
	for _, rec := range s.records {
		if !rec.Expired(now) {
			n++
		}
	}
	return n
}

// Resources returns copies of all live resources in unspecified order.
func (s *Store) Resources() []resource.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	out := make([]resource.Resource, 0, len(s.records))
	for _, rec := range s.records {
		if !rec.Expired(now) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// Filter selects candidate resources through the metadata index.
// Zero-valued fields are unconstrained.
type Filter struct {
	Type     resource.Type
	Category resource.Category
	Tags     []string // every tag must be present (intersection)
	AnyTags  []string // at least one tag must be present (union)
}

func (f Filter) empty() bool {
	return f.Type == "" && f.Category == "" && len(f.Tags) == 0 && len(f.AnyTags) == 0
}

// Candidates returns copies of the live resources matching every supplied
// index filter, computed as a set intersection over the inverted maps.
// With an empty filter it returns all live resources. Store and index are
// read under one lock so the pair is always consistent.
func (s *Store) Candidates(f Filter) []resource.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	if f.empty() {
		out := make([]resource.Resource, 0, len(s.records))
		for _, rec := range s.records {
			if !rec.Expired(now) {
				out = append(out, rec.Clone())
			}
		}
		return out
	}

	sets := make([]index.Set, 0, 4)
	if f.Type != "" {
		sets = append(sets, s.idx.ByType(f.Type))
	}
	if f.Category != "" {
		sets = append(sets, s.idx.ByCategory(f.Category))
	}
	for _, tag := range resource.NormalizeTags(f.Tags) {
		sets = append(sets, s.idx.ByTag(tag))
	}
	if anyTags := resource.NormalizeTags(f.AnyTags); len(anyTags) > 0 {
		union := make(index.Set)
		for _, tag := range anyTags {
			union = union.Union(s.idx.ByTag(tag))
		}
		sets = append(sets, union)
	}

	// Tags can normalize away entirely (blank or whitespace entries),
	// leaving no index constraint.
	if len(sets) == 0 {
		out := make([]resource.Resource, 0, len(s.records))
		for _, rec := range s.records {
			if !rec.Expired(now) {
				out = append(out, rec.Clone())
			}
		}
		return out
	}

	candidate := sets[0]
	for _, set := range sets[1:] {
		if len(candidate) == 0 {
			break
		}
		candidate = candidate.Intersect(set)
	}

	out := make([]resource.Resource, 0, len(candidate))
	for uri := range candidate {
		rec, ok := s.records[uri]
		if !ok || rec.Expired(now) {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out
}

// Export returns copies of every record, including expired ones, for an
// explicit flush to external storage.
func (s *Store) Export() []resource.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]resource.Resource, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Import loads previously exported records. A record whose URI collides
// with one already issued fails the whole import with ErrConflict before
// any state changes.
func (s *Store) Import(records []resource.Resource) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range records {
		if _, taken := s.issued[records[i].URI]; taken {
			return fmt.Errorf("%w: URI %s already issued", ErrConflict, records[i].URI)
		}
	}
	for i := range records {
		rec := records[i].Clone()
		s.issued[rec.URI] = struct{}{}
		s.records[rec.URI] = &rec
		s.idx.Add(&rec)
	}
	return nil
}

// Now returns the store's current time. Search uses it so expiry
// decisions and date filters share one clock.
func (s *Store) Now() time.Time {
	return s.clock()
}

// allocateLocked issues a URI that has never been handed out before.
func (s *Store) allocateLocked(t resource.Type) string {
	for {
		uri := s.alloc.Allocate(t)
		if _, taken := s.issued[uri]; taken {
			continue
		}
		s.issued[uri] = struct{}{}
		return uri
	}
}

func (s *Store) deleteLocked(uri string) {
	rec, ok := s.records[uri]
	if !ok {
		return
	}
	s.idx.Remove(rec)
	delete(s.records, uri)
}

// evictForCapacityLocked makes room for one insertion by evicting the
// least-recently-accessed live records, treating never-accessed records
// as accessed at creation.
func (s *Store) evictForCapacityLocked(now time.Time) {
	// Expired records go first; they are free to reclaim.
	for uri, rec := range s.records {
		if len(s.records) < s.maxEntries {
			return
		}
		if rec.Expired(now) {
			s.deleteLocked(uri)
		}
	}

	for len(s.records) >= s.maxEntries {
		victim := ""
		var victimAt time.Time
		for uri, rec := range s.records {
			at := rec.CreatedAt
			if rec.LastAccessed != nil {
				at = *rec.LastAccessed
			}
			if victim == "" || at.Before(victimAt) || (at.Equal(victimAt) && uri < victim) {
				victim = uri
				victimAt = at
			}
		}
		if victim == "" {
			return
		}
		s.logger.Debug("evicted for capacity", zap.String("uri", victim))
		s.deleteLocked(victim)
	}
}
