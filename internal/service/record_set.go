package service

import (
	"sync"
	"time"

	"go-hospital-internment/internal/domain/entity"
)

type recordEntry[T entity.Record] struct {
	value T
	state entity.SyncState
}

// RecordSet is the in-memory list a controller owns, merged with store snapshots.
//
// Merge rules:
// - snapshot rows are deduplicated by id, the latest ModifiedAt wins
// - a pending/local-only record newer than its snapshot row is kept
// - a snapshot row at least as new replaces the local record and is synced
// - synced records missing from the snapshot are dropped, pending ones are kept
type RecordSet[T entity.Record] struct {
	mu      sync.RWMutex
	entries []*recordEntry[T]
	index   map[string]int
}

func NewRecordSet[T entity.Record]() *RecordSet[T] {
	return &RecordSet[T]{index: make(map[string]int)}
}

// ApplySnapshot merges the latest store content into the set
func (s *RecordSet[T]) ApplySnapshot(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deduped := dedupeLatest(records)
	next := make([]*recordEntry[T], 0, len(deduped)+len(s.entries))
	seen := make(map[string]bool, len(deduped))

	for _, rec := range deduped {
		id := rec.RecordID()
		seen[id] = true
		if cur, ok := s.lookupLocked(id); ok && cur.state != entity.SyncStateSynced && cur.value.ModifiedAt().After(rec.ModifiedAt()) {
			next = append(next, cur)
			continue
		}
		next = append(next, &recordEntry[T]{value: rec, state: entity.SyncStateSynced})
	}

	for _, cur := range s.entries {
		if seen[cur.value.RecordID()] || cur.state == entity.SyncStateSynced {
			continue
		}
		next = append(next, cur)
	}

	s.entries = next
	s.reindexLocked()
}

// Put inserts or replaces a record with the given state
func (s *RecordSet[T]) Put(rec T, state entity.SyncState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[rec.RecordID()]; ok {
		s.entries[i] = &recordEntry[T]{value: rec, state: state}
		return
	}
	s.entries = append(s.entries, &recordEntry[T]{value: rec, state: state})
	s.index[rec.RecordID()] = len(s.entries) - 1
}

// MarkSynced confirms a local write, unless a newer version replaced it meanwhile
func (s *RecordSet[T]) MarkSynced(id string, version time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.lookupLocked(id)
	if !ok || cur.state == entity.SyncStateSynced {
		return
	}
	if cur.value.ModifiedAt().Equal(version) {
		cur.state = entity.SyncStateSynced
	}
}

// Remove drops a record
func (s *RecordSet[T]) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	s.reindexLocked()
}

// Get returns the record with the given id
func (s *RecordSet[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cur, ok := s.lookupLocked(id); ok {
		return cur.value, true
	}
	var zero T
	return zero, false
}

// State returns the sync state of a record
func (s *RecordSet[T]) State(id string) (entity.SyncState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cur, ok := s.lookupLocked(id); ok {
		return cur.state, true
	}
	return "", false
}

// List returns all records in set order
func (s *RecordSet[T]) List() []T {
	return s.Filter(nil)
}

// Filter returns the records accepted by keep, in set order
func (s *RecordSet[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.entries))
	for _, e := range s.entries {
		if keep == nil || keep(e.value) {
			out = append(out, e.value)
		}
	}
	return out
}

// Len is the number of records held
func (s *RecordSet[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *RecordSet[T]) lookupLocked(id string) (*recordEntry[T], bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.entries[i], true
}

func (s *RecordSet[T]) reindexLocked() {
	s.index = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.index[e.value.RecordID()] = i
	}
}

func dedupeLatest[T entity.Record](records []T) []T {
	out := make([]T, 0, len(records))
	pos := make(map[string]int, len(records))
	for _, rec := range records {
		id := rec.RecordID()
		if i, ok := pos[id]; ok {
			if rec.ModifiedAt().After(out[i].ModifiedAt()) {
				out[i] = rec
			}
			continue
		}
		pos[id] = len(out)
		out = append(out, rec)
	}
	return out
}
