// Package cache provides the bounded in-memory store for assembled release
// notes records. Contents are not persisted; a restart starts cold.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnote/pkg/domain/model"
)

// DefaultCapacity is the record limit used when no capacity is configured
const DefaultCapacity = 8192

// slotKey identifies one cache slot. The latest flag is part of the
// identity: a latest record and a specific-tag record may coexist even when
// they denote the same underlying release.
type slotKey struct {
	org    string
	repo   string
	tag    string
	latest bool
}

// Store is a fixed-capacity LRU of release notes records with a
// selector-predicate lookup. The mutex only guards the scan-and-promote
// sequence; callers never hold it across network I/O.
type Store struct {
	mu      sync.Mutex
	entries *lru.Cache[slotKey, *model.ReleaseNotes]
}

// New creates a store evicting the least-recently-used record beyond
// capacity
func New(capacity int) (*Store, error) {
	entries, err := lru.New[slotKey, *model.ReleaseNotes](capacity)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LRU cache", goerr.V("capacity", capacity))
	}
	return &Store{entries: entries}, nil
}

// Find returns the most-recently-used record matching the repository and
// selector, marking it as freshly used. A record stored under a specific
// tag satisfies a latest lookup only when it carries the latest flag.
func (s *Store) Find(org, repo string, sel model.Selector) (*model.ReleaseNotes, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.entries.Keys() // ordered oldest to newest
	for i := len(keys) - 1; i >= 0; i-- {
		record, ok := s.entries.Peek(keys[i])
		if !ok {
			continue
		}
		if record.Matches(org, repo, sel) {
			s.entries.Get(keys[i]) // promote to most recently used
			return record, true
		}
	}
	return nil, false
}

// Insert stores the record as most recently used, evicting the
// least-recently-used entry when at capacity
func (s *Store) Insert(record *model.ReleaseNotes) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Add(slotKey{
		org:    record.Org,
		repo:   record.Repo,
		tag:    record.Tag,
		latest: record.Latest,
	}, record)
}

// Len returns the number of cached records
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}
