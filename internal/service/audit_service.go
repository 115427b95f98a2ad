package service

import (
	"context"
	"time"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type AuditService interface {
	LogCreate(ctx context.Context, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	store repository.RecordStore
	log   *logrus.Logger
	now   func() time.Time
}

func NewAuditService(store repository.RecordStore, log *logrus.Logger) AuditService {
	return &auditService{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	auditLog := entity.AuditLog{
		Action:    action,
		Entity:    entityName,
		EntityID:  entityID,
		OldValue:  oldValue,
		NewValue:  newValue,
		CreatedAt: s.now(),
	}

	fields, err := converter.ToFields(auditLog)
	if err != nil {
		s.log.Warnf("Failed to encode audit log: %+v", err)
		return err
	}
	stripCredentials(fields["oldValue"])
	stripCredentials(fields["newValue"])

	if _, err := s.store.Add(ctx, entity.CollectionAudit, fields); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

// credentialFields never reach the audit trail, whatever the caller passes
var credentialFields = []string{"password", "accessCode"}

func stripCredentials(value interface{}) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, field := range credentialFields {
		delete(obj, field)
	}
}
