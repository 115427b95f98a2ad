package repository

import (
	"context"
	"errors"

	"go-hospital-internment/internal/domain/entity"
)

// ErrDocumentNotFound is returned by Update when the id does not exist
var ErrDocumentNotFound = errors.New("document not found")

// Document is a stored record of a named collection
type Document struct {
	ID     string
	Fields entity.JSON
}

// SnapshotFunc receives the full, ordered content of a collection
type SnapshotFunc func(docs []Document)

// ErrorFunc receives subscription failures
type ErrorFunc func(err error)

// RecordStore is a collection-oriented document store with change subscriptions.
// orderBy names a document field; a leading "-" sorts descending.
type RecordStore interface {
	GetAll(ctx context.Context, collection string, orderBy string) ([]Document, error)
	Get(ctx context.Context, collection string, id string) (*Document, error)
	Add(ctx context.Context, collection string, fields entity.JSON) (string, error)
	Set(ctx context.Context, collection string, id string, fields entity.JSON) error
	Update(ctx context.Context, collection string, id string, fields entity.JSON) error
	Delete(ctx context.Context, collection string, id string) error
	Subscribe(ctx context.Context, collection string, orderBy string, onSnapshot SnapshotFunc, onError ErrorFunc) (func(), error)
}
