package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"
	"go-hospital-internment/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrValidationNotFound = errors.New("validation request not found")
	ErrInvalidReferral    = errors.New("patient and new service are required")
)

// PatientTransfers is the part of the patient lifecycle a referral may change
type PatientTransfers interface {
	GetPatient(ctx context.Context, id string) (*entity.Patient, error)
	MarkValidationPending(ctx context.Context, id string) error
	ApplyServiceTransfer(ctx context.Context, id string, newService string) error
}

type ValidationUsecase interface {
	Start(ctx context.Context) error
	Stop()
	CreateReferral(ctx context.Context, req *dto.CreateReferralRequest) (*entity.ValidationRequest, error)
	Approve(ctx context.Context, id string) (*entity.ValidationRequest, error)
	Reject(ctx context.Context, id string) (*entity.ValidationRequest, error)
	GetRequest(ctx context.Context, id string) (*entity.ValidationRequest, error)
	GetPendingRequests(ctx context.Context) []entity.ValidationRequest
	GetRequestsByPatient(ctx context.Context, patientID string) []entity.ValidationRequest
}

type validationUsecase struct {
	log          *logrus.Logger
	sync         *recordSync[entity.ValidationRequest]
	patients     PatientTransfers
	auditService service.AuditService
	metrics      *service.Metrics
	now          func() time.Time

	mu sync.Mutex
}

func NewValidationUsecase(
	log *logrus.Logger,
	store repository.RecordStore,
	patients PatientTransfers,
	auditService service.AuditService,
	metrics *service.Metrics,
) ValidationUsecase {
	return &validationUsecase{
		log:          log,
		sync:         newRecordSync[entity.ValidationRequest](store, log, entity.CollectionValidations, "-requestDate"),
		patients:     patients,
		auditService: auditService,
		metrics:      metrics,
		now:          time.Now,
	}
}

func (u *validationUsecase) Start(ctx context.Context) error {
	if _, err := u.sync.load(ctx); err != nil {
		u.log.Warnf("Failed to load validation requests, starting empty: %+v", err)
	}
	u.sync.subscribe(ctx)
	return nil
}

func (u *validationUsecase) Stop() {
	u.sync.stop()
}

// CreateReferral opens a service transfer request and flags the patient.
// Any transition is accepted, including to the current service.
func (u *validationUsecase) CreateReferral(ctx context.Context, req *dto.CreateReferralRequest) (*entity.ValidationRequest, error) {
	newService := strings.TrimSpace(req.NewService)
	if strings.TrimSpace(req.PatientID) == "" || newService == "" {
		return nil, ErrInvalidReferral
	}

	patient, err := u.patients.GetPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	request := entity.ValidationRequest{
		PatientID:       patient.ID,
		PatientName:     patient.Name,
		PreviousService: patient.Service,
		NewService:      newService,
		Status:          entity.ValidationStatusPending,
		RequestedBy:     strings.TrimSpace(req.RequestedBy),
		Reason:          strings.TrimSpace(req.Reason),
		RequestDate:     now,
		UpdatedAt:       now,
	}

	id, err := u.sync.add(ctx, request)
	if err != nil {
		u.log.Warnf("Failed to create referral for patient %s: %+v", patient.ID, err)
		return nil, err
	}
	request.ID = id
	if state, ok := u.sync.records.State(id); !ok || state != entity.SyncStateSynced {
		u.sync.records.Put(request, entity.SyncStatePending)
	}

	if err := u.patients.MarkValidationPending(ctx, patient.ID); err != nil {
		u.log.Warnf("Failed to flag patient %s as pending validation: %+v", patient.ID, err)
	}

	_ = u.auditService.LogCreate(ctx, entity.AuditActionReferralCreate, entity.CollectionValidations, id, request)
	u.metrics.IncReferrals(entity.ValidationStatusPending)

	return &request, nil
}

// Approve resolves a pending request and transfers the patient.
// An already resolved request yields (nil, nil).
func (u *validationUsecase) Approve(ctx context.Context, id string) (*entity.ValidationRequest, error) {
	return u.resolve(ctx, id, entity.ValidationStatusApproved)
}

// Reject resolves a pending request without touching the patient.
// An already resolved request yields (nil, nil).
func (u *validationUsecase) Reject(ctx context.Context, id string) (*entity.ValidationRequest, error) {
	return u.resolve(ctx, id, entity.ValidationStatusRejected)
}

func (u *validationUsecase) resolve(ctx context.Context, id string, outcome entity.ValidationStatus) (*entity.ValidationRequest, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrValidationNotFound
	}
	if !current.IsPending() {
		return nil, nil
	}

	next := current
	now := u.now()
	action := entity.AuditActionReferralReject
	if outcome == entity.ValidationStatusApproved {
		next.Approve(now)
		action = entity.AuditActionReferralApprove
	} else {
		next.Reject(now)
	}

	// The transfer goes first so a failed transfer leaves the request open for a retry
	if outcome == entity.ValidationStatusApproved {
		if err := u.patients.ApplyServiceTransfer(ctx, next.PatientID, next.NewService); err != nil {
			u.log.Warnf("Failed to transfer patient %s to %s: %+v", next.PatientID, next.NewService, err)
			return nil, err
		}
	}

	fields := entity.JSON{
		"status":     string(next.Status),
		"resolvedAt": formatTime(now),
		"updatedAt":  formatTime(now),
	}
	if err := u.sync.commit(current, true, next, func() error { return u.sync.update(ctx, id, fields) }); err != nil {
		u.log.Warnf("Failed to resolve validation request %s: %+v", id, err)
		return nil, err
	}

	_ = u.auditService.LogUpdate(ctx, action, entity.CollectionValidations, id,
		map[string]string{"status": string(current.Status)}, map[string]string{"status": string(next.Status)})
	u.metrics.IncReferrals(outcome)

	return &next, nil
}

func (u *validationUsecase) GetRequest(ctx context.Context, id string) (*entity.ValidationRequest, error) {
	v, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrValidationNotFound
	}
	return &v, nil
}

// GetPendingRequests returns open requests, newest first
func (u *validationUsecase) GetPendingRequests(ctx context.Context) []entity.ValidationRequest {
	requests := u.sync.records.Filter(func(v entity.ValidationRequest) bool {
		return v.IsPending()
	})
	sortNewestFirst(requests, func(v entity.ValidationRequest) time.Time { return v.RequestDate })
	return requests
}

func (u *validationUsecase) GetRequestsByPatient(ctx context.Context, patientID string) []entity.ValidationRequest {
	requests := u.sync.records.Filter(func(v entity.ValidationRequest) bool {
		return v.PatientID == patientID
	})
	sortNewestFirst(requests, func(v entity.ValidationRequest) time.Time { return v.RequestDate })
	return requests
}
