package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"
	"go-hospital-internment/internal/service"

	"github.com/sirupsen/logrus"
)

var errLoadUnavailable = errors.New("initial load unavailable")

// recordSync keeps a controller's record set in step with one store collection
type recordSync[T entity.Record] struct {
	store      repository.RecordStore
	log        *logrus.Logger
	collection string
	orderBy    string
	records    *service.RecordSet[T]

	// afterApply runs after every merged snapshot, outside the set lock
	afterApply func()

	mu          sync.Mutex
	unsubscribe func()
}

func newRecordSync[T entity.Record](store repository.RecordStore, log *logrus.Logger, collection, orderBy string) *recordSync[T] {
	return &recordSync[T]{
		store:      store,
		log:        log,
		collection: collection,
		orderBy:    orderBy,
		records:    service.NewRecordSet[T](),
	}
}

// load performs the initial read; the caller decides how to fall back on error
func (s *recordSync[T]) load(ctx context.Context) (int, error) {
	docs, err := s.store.GetAll(ctx, s.collection, s.orderBy)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errLoadUnavailable, s.collection, err)
	}
	s.apply(docs)
	return len(docs), nil
}

// subscribe starts live updates; failures leave the controller on local data
func (s *recordSync[T]) subscribe(ctx context.Context) {
	unsubscribe, err := s.store.Subscribe(ctx, s.collection, s.orderBy, s.apply, func(err error) {
		s.log.Warnf("Failed to refresh %s: %+v", s.collection, err)
	})
	if err != nil {
		s.log.Warnf("Failed to subscribe to %s, continuing with local data: %+v", s.collection, err)
		return
	}

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

func (s *recordSync[T]) stop() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *recordSync[T]) apply(docs []repository.Document) {
	records := converter.FromDocuments[T](docs, func(err error) {
		s.log.Warnf("Skipping malformed %s document: %+v", s.collection, err)
	})
	s.records.ApplySnapshot(records)
	if s.afterApply != nil {
		s.afterApply()
	}
}

// add stores a new document and returns its generated id
func (s *recordSync[T]) add(ctx context.Context, rec T) (string, error) {
	fields, err := converter.ToFields(rec)
	if err != nil {
		return "", err
	}
	return s.store.Add(ctx, s.collection, fields)
}

// set writes the full document
func (s *recordSync[T]) set(ctx context.Context, rec T) error {
	fields, err := converter.ToFields(rec)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, s.collection, rec.RecordID(), fields)
}

// update merges the given fields into the stored document
func (s *recordSync[T]) update(ctx context.Context, id string, fields entity.JSON) error {
	return s.store.Update(ctx, s.collection, id, fields)
}

// commit applies next locally as pending and persists it.
// On failure the previous record (or its absence) is restored.
func (s *recordSync[T]) commit(prev T, hadPrev bool, next T, persist func() error) error {
	prevState, _ := s.records.State(prev.RecordID())
	s.records.Put(next, entity.SyncStatePending)

	if err := persist(); err != nil {
		if hadPrev {
			s.records.Put(prev, prevState)
		} else {
			s.records.Remove(next.RecordID())
		}
		return err
	}

	s.records.MarkSynced(next.RecordID(), next.ModifiedAt())
	if s.afterApply != nil {
		s.afterApply()
	}
	return nil
}

// sortNewestFirst orders records by the given timestamp, newest first
func sortNewestFirst[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).After(at(items[j]))
	})
}

// seedOnce writes the built-in records the first time the collection is found empty.
// A marker in the hospital collection remembers it, so a collection emptied later
// stays empty. write returns how many records reached the store.
func (s *recordSync[T]) seedOnce(ctx context.Context, count int, write func() int) {
	markerID := entity.SeedMarkerID(s.collection)
	marker, err := s.store.Get(ctx, entity.CollectionHospital, markerID)
	if err != nil {
		s.log.Warnf("Failed to read seed marker of %s: %+v", s.collection, err)
		return
	}
	if marker != nil {
		if count == 0 {
			s.log.Infof("No %s stored, built-in records were already written once", s.collection)
		}
		return
	}

	if count == 0 {
		s.log.Infof("No %s stored yet, writing built-in records", s.collection)
		if write() == 0 {
			return
		}
	}

	err = s.store.Set(ctx, entity.CollectionHospital, markerID, entity.JSON{
		"collection": s.collection,
		"seededAt":   formatTime(time.Now()),
	})
	if err != nil {
		s.log.Warnf("Failed to write seed marker of %s: %+v", s.collection, err)
	}
}

// sortOldestFirst orders records by the given timestamp, oldest first
func sortOldestFirst[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).Before(at(items[j]))
	})
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// formatTime renders a timestamp the way encoding/json does, for partial updates
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
