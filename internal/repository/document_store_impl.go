package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-hospital-internment/internal/domain/entity"
	domainRepo "go-hospital-internment/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	snapshotReadTimeout = 10 * time.Second
	addAttempts         = 3

	uniqueViolation = "23505"
)

// documentStore keeps every collection in the store_documents table.
// Writes are announced on the change feed; subscribers re-read the collection.
type documentStore struct {
	db   *gorm.DB
	feed domainRepo.ChangeFeed
	log  *logrus.Logger
}

func NewDocumentStore(db *gorm.DB, feed domainRepo.ChangeFeed, log *logrus.Logger) domainRepo.RecordStore {
	return &documentStore{
		db:   db,
		feed: feed,
		log:  log,
	}
}

func (s *documentStore) GetAll(ctx context.Context, collection string, orderBy string) ([]domainRepo.Document, error) {
	var rows []entity.StoreDocument

	query := s.db.WithContext(ctx).Where("collection = ?", collection)
	if field, desc := parseOrderBy(orderBy); field != "" {
		direction := "ASC"
		if desc {
			direction = "DESC"
		}
		query = query.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "data->>? " + direction + " NULLS LAST",
			Vars:               []interface{}{field},
			WithoutParentheses: true,
		}})
	} else {
		query = query.Order("created_at ASC")
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	docs := make([]domainRepo.Document, len(rows))
	for i, row := range rows {
		docs[i] = domainRepo.Document{ID: row.ID, Fields: row.Data}
	}
	return docs, nil
}

func (s *documentStore) Get(ctx context.Context, collection string, id string) (*domainRepo.Document, error) {
	var row entity.StoreDocument
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &domainRepo.Document{ID: row.ID, Fields: row.Data}, nil
}

// Add inserts under a fresh id, drawing a new one if the id is already taken
func (s *documentStore) Add(ctx context.Context, collection string, fields entity.JSON) (string, error) {
	var err error
	for attempt := 0; attempt < addAttempts; attempt++ {
		row := entity.StoreDocument{
			Collection: collection,
			ID:         uuid.NewString(),
			Data:       fields,
		}
		err = s.db.WithContext(ctx).Create(&row).Error
		if err == nil {
			s.publish(ctx, collection)
			return row.ID, nil
		}
		if !isUniqueViolation(err) {
			break
		}
		s.log.Warnf("Generated id %s already exists in %s, retrying", row.ID, collection)
	}
	return "", fmt.Errorf("add to %s: %w", collection, err)
}

func (s *documentStore) Set(ctx context.Context, collection string, id string, fields entity.JSON) error {
	row := entity.StoreDocument{
		Collection: collection,
		ID:         id,
		Data:       fields,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	s.publish(ctx, collection)
	return nil
}

func (s *documentStore) Update(ctx context.Context, collection string, id string, fields entity.JSON) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode patch of %s/%s: %w", collection, id, err)
	}

	result := s.db.WithContext(ctx).
		Model(&entity.StoreDocument{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]interface{}{
			"data":       gorm.Expr("data || ?::jsonb", string(patch)),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrDocumentNotFound
	}

	s.publish(ctx, collection)
	return nil
}

func (s *documentStore) Delete(ctx context.Context, collection string, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&entity.StoreDocument{}).Error
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}

	s.publish(ctx, collection)
	return nil
}

func (s *documentStore) Subscribe(ctx context.Context, collection string, orderBy string, onSnapshot domainRepo.SnapshotFunc, onError domainRepo.ErrorFunc) (func(), error) {
	docs, err := s.GetAll(ctx, collection, orderBy)
	if err != nil {
		return nil, err
	}
	onSnapshot(docs)

	if s.feed == nil {
		s.log.Warnf("No change feed configured, %s will not receive live updates", collection)
		return func() {}, nil
	}

	return s.feed.Subscribe(ctx, collection, func() {
		readCtx, cancel := context.WithTimeout(context.Background(), snapshotReadTimeout)
		defer cancel()

		docs, err := s.GetAll(readCtx, collection, orderBy)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onSnapshot(docs)
	})
}

// publish failures do not undo a committed write; the next change repairs subscribers
func (s *documentStore) publish(ctx context.Context, collection string) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, collection); err != nil {
		s.log.Warnf("Failed to publish change of %s: %+v", strings.TrimSpace(collection), err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
