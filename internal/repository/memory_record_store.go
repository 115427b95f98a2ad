package repository

import (
	"context"
	"sync"

	"go-hospital-internment/internal/domain/entity"
	domainRepo "go-hospital-internment/internal/domain/repository"

	"github.com/google/uuid"
)

type memoryDocument struct {
	id     string
	fields entity.JSON
}

type memorySubscriber struct {
	orderBy    string
	onSnapshot domainRepo.SnapshotFunc
}

// MemoryRecordStore keeps collections in process memory.
// Snapshots are delivered synchronously, after the write lock is released.
type MemoryRecordStore struct {
	mu          sync.RWMutex
	collections map[string][]*memoryDocument
	subscribers map[string]map[int]*memorySubscriber
	nextSubID   int
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		collections: make(map[string][]*memoryDocument),
		subscribers: make(map[string]map[int]*memorySubscriber),
	}
}

var _ domainRepo.RecordStore = (*MemoryRecordStore)(nil)

func (s *MemoryRecordStore) GetAll(_ context.Context, collection string, orderBy string) ([]domainRepo.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(collection, orderBy), nil
}

func (s *MemoryRecordStore) Get(_ context.Context, collection string, id string) (*domainRepo.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(collection, id); i >= 0 {
		doc := s.collections[collection][i]
		return &domainRepo.Document{ID: doc.id, Fields: doc.fields.Clone()}, nil
	}
	return nil, nil
}

func (s *MemoryRecordStore) Add(_ context.Context, collection string, fields entity.JSON) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], &memoryDocument{id: id, fields: fields.Clone()})
	s.mu.Unlock()

	s.notify(collection)
	return id, nil
}

func (s *MemoryRecordStore) Set(_ context.Context, collection string, id string, fields entity.JSON) error {
	s.mu.Lock()
	if i := s.indexLocked(collection, id); i >= 0 {
		s.collections[collection][i].fields = fields.Clone()
	} else {
		s.collections[collection] = append(s.collections[collection], &memoryDocument{id: id, fields: fields.Clone()})
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryRecordStore) Update(_ context.Context, collection string, id string, fields entity.JSON) error {
	s.mu.Lock()
	i := s.indexLocked(collection, id)
	if i < 0 {
		s.mu.Unlock()
		return domainRepo.ErrDocumentNotFound
	}
	merged := s.collections[collection][i].fields.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	s.collections[collection][i].fields = merged
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryRecordStore) Delete(_ context.Context, collection string, id string) error {
	s.mu.Lock()
	i := s.indexLocked(collection, id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	docs := s.collections[collection]
	s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryRecordStore) Subscribe(_ context.Context, collection string, orderBy string, onSnapshot domainRepo.SnapshotFunc, _ domainRepo.ErrorFunc) (func(), error) {
	s.mu.Lock()
	if s.subscribers[collection] == nil {
		s.subscribers[collection] = make(map[int]*memorySubscriber)
	}
	s.nextSubID++
	subID := s.nextSubID
	s.subscribers[collection][subID] = &memorySubscriber{orderBy: orderBy, onSnapshot: onSnapshot}
	initial := s.snapshotLocked(collection, orderBy)
	s.mu.Unlock()

	onSnapshot(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers[collection], subID)
			s.mu.Unlock()
		})
	}, nil
}

func (s *MemoryRecordStore) notify(collection string) {
	type delivery struct {
		fn   domainRepo.SnapshotFunc
		docs []domainRepo.Document
	}

	s.mu.RLock()
	deliveries := make([]delivery, 0, len(s.subscribers[collection]))
	for _, sub := range s.subscribers[collection] {
		deliveries = append(deliveries, delivery{fn: sub.onSnapshot, docs: s.snapshotLocked(collection, sub.orderBy)})
	}
	s.mu.RUnlock()

	for _, d := range deliveries {
		d.fn(d.docs)
	}
}

func (s *MemoryRecordStore) snapshotLocked(collection string, orderBy string) []domainRepo.Document {
	stored := s.collections[collection]
	docs := make([]domainRepo.Document, len(stored))
	for i, doc := range stored {
		docs[i] = domainRepo.Document{ID: doc.id, Fields: doc.fields.Clone()}
	}
	SortDocuments(docs, orderBy)
	return docs
}

func (s *MemoryRecordStore) indexLocked(collection string, id string) int {
	for i, doc := range s.collections[collection] {
		if doc.id == id {
			return i
		}
	}
	return -1
}
