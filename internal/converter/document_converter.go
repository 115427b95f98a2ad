package converter

import (
	"encoding/json"
	"fmt"

	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"
)

// ToFields converts an entity to a store document body.
// The id lives outside the body, so it is dropped.
func ToFields(v interface{}) (entity.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	fields := entity.JSON{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

// FromDocument converts a store document to an entity, injecting the document id
func FromDocument[T any](doc repository.Document) (T, error) {
	var out T

	fields := doc.Fields.Clone()
	fields["id"] = doc.ID

	raw, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return out, nil
}

// FromDocuments converts every decodable document; onError receives the others
func FromDocuments[T any](docs []repository.Document, onError func(err error)) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := FromDocument[T](doc)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			continue
		}
		out = append(out, v)
	}
	return out
}
