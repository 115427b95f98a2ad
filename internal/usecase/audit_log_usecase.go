package usecase

import (
	"context"
	"errors"
	"time"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, entityName string) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id string) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	log   *logrus.Logger
	store repository.RecordStore
}

func NewAuditLogUsecase(log *logrus.Logger, store repository.RecordStore) AuditLogUsecase {
	return &auditLogUsecase{
		log:   log,
		store: store,
	}
}

// GetAllAuditLogs returns the trail newest first, optionally for one entity type
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, entityName string) (*dto.AuditLogListResponse, error) {
	docs, err := u.store.GetAll(ctx, entity.CollectionAudit, "-createdAt")
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	logs := converter.FromDocuments[entity.AuditLog](docs, func(err error) {
		u.log.Warnf("Skipping malformed audit log: %+v", err)
	})
	if entityName != "" {
		filtered := logs[:0]
		for _, l := range logs {
			if l.Entity == entityName {
				filtered = append(filtered, l)
			}
		}
		logs = filtered
	}
	sortNewestFirst(logs, func(l entity.AuditLog) time.Time { return l.CreatedAt })

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id string) (*dto.AuditLogResponse, error) {
	doc, err := u.store.Get(ctx, entity.CollectionAudit, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %s: %+v", id, err)
		return nil, err
	}
	if doc == nil {
		return nil, ErrAuditLogNotFound
	}

	auditLog, err := converter.FromDocument[entity.AuditLog](*doc)
	if err != nil {
		u.log.Warnf("Failed to decode audit log %s: %+v", id, err)
		return nil, err
	}
	return converter.AuditLogToResponse(&auditLog), nil
}
