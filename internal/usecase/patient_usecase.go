package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"
	"go-hospital-internment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrInvalidPatientData  = errors.New("name, email and service are required")
	ErrIncompletePlacement = errors.New("ward and bed must be given together")
)

// BedAllocator is the part of the ward allocator the patient lifecycle relies on
type BedAllocator interface {
	ListAvailableWards(ctx context.Context) []entity.Ward
	ListAvailableBeds(ctx context.Context, wardName string) ([]string, error)
	OccupyBed(ctx context.Context, wardName, bedNumber, patientID string) error
	FreeBed(ctx context.Context, wardName, bedNumber string) error
}

// AdmissionResult carries the plain credentials, returned only on admission
type AdmissionResult struct {
	Patient     entity.Patient
	Credentials entity.PatientCredentials
}

type DashboardStats struct {
	ActivePatientsCount       int
	TotalInternments          int
	PendingValidationCount    int
	EligibleForDischargeCount int
}

type PatientUsecase interface {
	Start(ctx context.Context) error
	Stop()
	AdmitPatient(ctx context.Context, req *dto.AdmitPatientRequest) (*AdmissionResult, error)
	UpdatePatient(ctx context.Context, id string, req *dto.UpdatePatientRequest) (*entity.Patient, error)
	GetPatient(ctx context.Context, id string) (*entity.Patient, error)
	GetPatientSyncState(ctx context.Context, id string) (entity.SyncState, bool)
	GetAllPatients(ctx context.Context) []entity.Patient
	GetDashboardStats(ctx context.Context) DashboardStats
	SearchPatients(ctx context.Context, query string) []entity.Patient
	FilterByService(ctx context.Context, service string) []entity.Patient
	FilterByStatus(ctx context.Context, status string) []entity.Patient
	GetAvailableWards(ctx context.Context) []entity.Ward
	GetAvailableBeds(ctx context.Context, wardName string) ([]string, error)
	MarkValidationPending(ctx context.Context, id string) error
	ApplyServiceTransfer(ctx context.Context, id string, newService string) error
	SetDischargeEligibility(ctx context.Context, id string, eligible bool) error
	ApplyDischarge(ctx context.Context, id string) (*entity.Patient, error)
	VerifyAccessCode(ctx context.Context, id string, code string) (bool, error)
}

type patientUsecase struct {
	log          *logrus.Logger
	sync         *recordSync[entity.Patient]
	beds         BedAllocator
	credentials  *service.CredentialService
	auditService service.AuditService
	metrics      *service.Metrics
	now          func() time.Time

	mu sync.Mutex
}

func NewPatientUsecase(
	log *logrus.Logger,
	store repository.RecordStore,
	beds BedAllocator,
	credentials *service.CredentialService,
	auditService service.AuditService,
	metrics *service.Metrics,
) PatientUsecase {
	return &patientUsecase{
		log:          log,
		sync:         newRecordSync[entity.Patient](store, log, entity.CollectionPatients, "name"),
		beds:         beds,
		credentials:  credentials,
		auditService: auditService,
		metrics:      metrics,
		now:          time.Now,
	}
}

func (u *patientUsecase) Start(ctx context.Context) error {
	if _, err := u.sync.load(ctx); err != nil {
		u.log.Warnf("Failed to load patients, starting empty: %+v", err)
	}
	u.sync.subscribe(ctx)
	u.log.WithField("patients", u.sync.records.Len()).Info("Patient lifecycle started")
	return nil
}

func (u *patientUsecase) Stop() {
	u.sync.stop()
}

// AdmitPatient registers a new internment.
//
// Flow:
// 1. Validate required fields and generate credentials
// 2. Occupy the requested bed through the ward allocator
// 3. Persist the patient with hashed credentials
// 4. If persisting fails -> compensate: free the bed
// 5. Deliver the plain credentials to the notifier
func (u *patientUsecase) AdmitPatient(ctx context.Context, req *dto.AdmitPatientRequest) (*AdmissionResult, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	svc := strings.TrimSpace(req.Service)
	if name == "" || email == "" || svc == "" {
		return nil, ErrInvalidPatientData
	}
	ward := strings.TrimSpace(req.Ward)
	bed := strings.TrimSpace(req.Bed)
	if (ward == "") != (bed == "") {
		return nil, ErrIncompletePlacement
	}

	creds, err := u.credentials.Generate()
	if err != nil {
		u.log.Warnf("Failed to generate credentials: %+v", err)
		return nil, err
	}
	hashedPassword, hashedCode, err := u.credentials.Hash(creds)
	if err != nil {
		u.log.Warnf("Failed to hash credentials: %+v", err)
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	admissionDate := now
	validationPending := true
	if req.ValidationPending != nil {
		validationPending = *req.ValidationPending
	}
	userNumber := strings.TrimSpace(req.UserNumber)
	if userNumber == "" {
		userNumber = u.nextUserNumber()
	}

	patient := entity.Patient{
		ID:                uuid.NewString(),
		UserNumber:        userNumber,
		Name:              name,
		Email:             email,
		Password:          hashedPassword,
		AccessCode:        hashedCode,
		Diagnosis:         strings.TrimSpace(req.Diagnosis),
		Service:           svc,
		Observations:      strings.TrimSpace(req.Observations),
		Ward:              ward,
		Bed:               bed,
		StoredLocation:    strings.TrimSpace(req.Location),
		Status:            entity.PatientStatusActive,
		AdmissionDate:     &admissionDate,
		ValidationPending: validationPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if patient.HasPlacement() {
		if err := u.beds.OccupyBed(ctx, ward, bed, patient.ID); err != nil {
			return nil, err
		}
	}

	err = u.sync.commit(entity.Patient{}, false, patient, func() error { return u.sync.set(ctx, patient) })
	if err != nil {
		u.log.Warnf("Failed to admit patient %s: %+v", name, err)
		if patient.HasPlacement() {
			if freeErr := u.beds.FreeBed(ctx, ward, bed); freeErr != nil {
				u.log.Warnf("Failed to release bed %s of %s after failed admission: %+v", bed, ward, freeErr)
			}
		}
		return nil, err
	}

	safe := patient.WithoutCredentials()
	_ = u.auditService.LogCreate(ctx, entity.AuditActionPatientAdmit, entity.CollectionPatients, patient.ID, safe)
	u.metrics.IncAdmissions()
	u.credentials.Deliver(ctx, safe, creds)

	return &AdmissionResult{Patient: safe, Credentials: creds}, nil
}

// UpdatePatient applies the present fields only.
// A placement change frees the previous bed and occupies the new one.
func (u *patientUsecase) UpdatePatient(ctx context.Context, id string, req *dto.UpdatePatientRequest) (*entity.Patient, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrPatientNotFound
	}

	next := current
	fields := entity.JSON{}
	setString := func(key string, value *string, target *string) {
		if value != nil {
			*target = strings.TrimSpace(*value)
			fields[key] = *target
		}
	}
	setString("name", req.Name, &next.Name)
	setString("email", req.Email, &next.Email)
	setString("diagnosis", req.Diagnosis, &next.Diagnosis)
	setString("service", req.Service, &next.Service)
	setString("observations", req.Observations, &next.Observations)
	setString("ward", req.Ward, &next.Ward)
	setString("bed", req.Bed, &next.Bed)
	setString("location", req.Location, &next.StoredLocation)
	if req.ValidationPending != nil {
		next.ValidationPending = *req.ValidationPending
		fields["validationPending"] = next.ValidationPending
	}
	if req.EligibleForDischarge != nil {
		next.EligibleForDischarge = *req.EligibleForDischarge
		fields["eligibleForDischarge"] = next.EligibleForDischarge
	}
	if len(fields) == 0 {
		safe := current.WithoutCredentials()
		return &safe, nil
	}
	if (next.Ward == "") != (next.Bed == "") {
		return nil, ErrIncompletePlacement
	}

	moved := current.Ward != next.Ward || current.Bed != next.Bed
	if moved && current.IsActive() {
		if err := u.movePlacement(ctx, current, next); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = u.now()
	fields["updatedAt"] = formatTime(next.UpdatedAt)

	if err := u.sync.commit(current, true, next, func() error { return u.sync.update(ctx, id, fields) }); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		if moved && current.IsActive() {
			u.restorePlacement(ctx, current, next)
		}
		return nil, err
	}

	_ = u.auditService.LogUpdate(ctx, entity.AuditActionPatientUpdate, entity.CollectionPatients, id,
		current.WithoutCredentials(), next.WithoutCredentials())

	safe := next.WithoutCredentials()
	return &safe, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id string) (*entity.Patient, error) {
	p, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrPatientNotFound
	}
	safe := p.WithoutCredentials()
	return &safe, nil
}

// GetPatientSyncState reports whether the patient is confirmed by the store
func (u *patientUsecase) GetPatientSyncState(ctx context.Context, id string) (entity.SyncState, bool) {
	return u.sync.records.State(id)
}

// GetAllPatients returns every patient once, without credentials, ordered by name.
// The record set already holds one record per id.
func (u *patientUsecase) GetAllPatients(ctx context.Context) []entity.Patient {
	records := u.sync.records.List()

	out := make([]entity.Patient, 0, len(records))
	for _, p := range records {
		out = append(out, p.WithoutCredentials())
	}

	sortByName(out)
	return out
}

// GetDashboardStats is recomputed on every call
func (u *patientUsecase) GetDashboardStats(ctx context.Context) DashboardStats {
	var stats DashboardStats
	for _, p := range u.GetAllPatients(ctx) {
		if p.IsActive() {
			stats.ActivePatientsCount++
		}
		if p.AdmissionDate != nil {
			stats.TotalInternments++
		}
		if p.ValidationPending {
			stats.PendingValidationCount++
		}
		if p.EligibleForDischarge {
			stats.EligibleForDischargeCount++
		}
	}
	return stats
}

// SearchPatients matches the name case-insensitively, or the user number or id
func (u *patientUsecase) SearchPatients(ctx context.Context, query string) []entity.Patient {
	q := strings.TrimSpace(query)
	if q == "" {
		return u.GetAllPatients(ctx)
	}
	lower := strings.ToLower(q)
	return filterPatients(u.GetAllPatients(ctx), func(p entity.Patient) bool {
		return strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(p.UserNumber, q) ||
			strings.Contains(p.ID, q)
	})
}

func (u *patientUsecase) FilterByService(ctx context.Context, service string) []entity.Patient {
	if isFilterAll(service) {
		return u.GetAllPatients(ctx)
	}
	return filterPatients(u.GetAllPatients(ctx), func(p entity.Patient) bool {
		return p.Service == service
	})
}

func (u *patientUsecase) FilterByStatus(ctx context.Context, status string) []entity.Patient {
	if isFilterAll(status) {
		return u.GetAllPatients(ctx)
	}
	return filterPatients(u.GetAllPatients(ctx), func(p entity.Patient) bool {
		return string(p.Status) == status
	})
}

// GetAvailableWards asks the ward allocator, the only source of bed data
func (u *patientUsecase) GetAvailableWards(ctx context.Context) []entity.Ward {
	return u.beds.ListAvailableWards(ctx)
}

func (u *patientUsecase) GetAvailableBeds(ctx context.Context, wardName string) ([]string, error) {
	return u.beds.ListAvailableBeds(ctx, wardName)
}

// MarkValidationPending flags the patient while a referral is open
func (u *patientUsecase) MarkValidationPending(ctx context.Context, id string) error {
	_, err := u.mutate(ctx, id, func(p *entity.Patient) entity.JSON {
		p.ValidationPending = true
		return entity.JSON{"validationPending": true}
	})
	return err
}

// ApplyServiceTransfer moves the patient to the approved service
func (u *patientUsecase) ApplyServiceTransfer(ctx context.Context, id string, newService string) error {
	var previous string
	updated, err := u.mutate(ctx, id, func(p *entity.Patient) entity.JSON {
		previous = p.Service
		p.Service = newService
		p.ValidationPending = false
		return entity.JSON{"service": newService, "validationPending": false}
	})
	if err != nil {
		return err
	}

	_ = u.auditService.LogUpdate(ctx, entity.AuditActionPatientTransfer, entity.CollectionPatients, id,
		map[string]string{"service": previous}, map[string]string{"service": updated.Service})
	return nil
}

func (u *patientUsecase) SetDischargeEligibility(ctx context.Context, id string, eligible bool) error {
	_, err := u.mutate(ctx, id, func(p *entity.Patient) entity.JSON {
		p.EligibleForDischarge = eligible
		return entity.JSON{"eligibleForDischarge": eligible}
	})
	return err
}

// ApplyDischarge closes the internment and frees the bed.
// When the store is unavailable the change is kept locally as local-only,
// so the patient stays consistent with the discharge record.
func (u *patientUsecase) ApplyDischarge(ctx context.Context, id string) (*entity.Patient, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrPatientNotFound
	}

	next := current
	next.Discharge()
	next.UpdatedAt = u.now()
	fields := entity.JSON{
		"status":               string(next.Status),
		"eligibleForDischarge": false,
		"updatedAt":            formatTime(next.UpdatedAt),
	}

	if current.IsActive() && current.HasPlacement() {
		if err := u.beds.FreeBed(ctx, current.Ward, current.Bed); err != nil {
			u.log.Warnf("Failed to free bed %s of %s for discharged patient %s: %+v", current.Bed, current.Ward, id, err)
		}
	}

	if err := u.sync.commit(current, true, next, func() error { return u.sync.update(ctx, id, fields) }); err != nil {
		u.log.Warnf("Failed to persist discharge of patient %s, keeping it locally: %+v", id, err)
		u.sync.records.Put(next, entity.SyncStateLocalOnly)
	} else {
		_ = u.auditService.LogUpdate(ctx, entity.AuditActionPatientDischarge, entity.CollectionPatients, id,
			map[string]string{"status": string(current.Status)}, map[string]string{"status": string(next.Status)})
	}

	u.metrics.IncDischarges()
	safe := next.WithoutCredentials()
	return &safe, nil
}

// VerifyAccessCode checks the family access code of a patient
func (u *patientUsecase) VerifyAccessCode(ctx context.Context, id string, code string) (bool, error) {
	p, ok := u.sync.records.Get(id)
	if !ok {
		return false, ErrPatientNotFound
	}
	return u.credentials.Matches(p.AccessCode, strings.TrimSpace(code)), nil
}

// mutate applies an owned change to one patient and persists the changed fields
func (u *patientUsecase) mutate(ctx context.Context, id string, change func(p *entity.Patient) entity.JSON) (entity.Patient, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.sync.records.Get(id)
	if !ok {
		return entity.Patient{}, ErrPatientNotFound
	}

	next := current
	fields := change(&next)
	next.UpdatedAt = u.now()
	fields["updatedAt"] = formatTime(next.UpdatedAt)

	if err := u.sync.commit(current, true, next, func() error { return u.sync.update(ctx, id, fields) }); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return entity.Patient{}, fmt.Errorf("persist patient %s: %w", id, err)
	}
	return next, nil
}

func (u *patientUsecase) movePlacement(ctx context.Context, current, next entity.Patient) error {
	if next.HasPlacement() {
		if err := u.beds.OccupyBed(ctx, next.Ward, next.Bed, next.ID); err != nil {
			return err
		}
	}
	if current.HasPlacement() {
		if err := u.beds.FreeBed(ctx, current.Ward, current.Bed); err != nil {
			u.log.Warnf("Failed to free previous bed %s of %s for patient %s: %+v", current.Bed, current.Ward, current.ID, err)
		}
	}
	return nil
}

func (u *patientUsecase) restorePlacement(ctx context.Context, current, next entity.Patient) {
	if next.HasPlacement() {
		if err := u.beds.FreeBed(ctx, next.Ward, next.Bed); err != nil {
			u.log.Warnf("Failed to release bed %s of %s: %+v", next.Bed, next.Ward, err)
		}
	}
	if current.HasPlacement() {
		if err := u.beds.OccupyBed(ctx, current.Ward, current.Bed, current.ID); err != nil {
			u.log.Warnf("Failed to restore bed %s of %s: %+v", current.Bed, current.Ward, err)
		}
	}
}

// nextUserNumber is one more than the highest numeric user number, six digits
func (u *patientUsecase) nextUserNumber() string {
	highest := 0
	for _, p := range u.sync.records.List() {
		if n, err := strconv.Atoi(p.UserNumber); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%06d", highest+1)
}

func filterPatients(patients []entity.Patient, keep func(entity.Patient) bool) []entity.Patient {
	out := make([]entity.Patient, 0, len(patients))
	for _, p := range patients {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func sortByName(patients []entity.Patient) {
	sort.SliceStable(patients, func(i, j int) bool {
		a, b := strings.ToLower(patients[i].Name), strings.ToLower(patients[j].Name)
		if a != b {
			return a < b
		}
		return patients[i].CreatedAt.Before(patients[j].CreatedAt)
	})
}

func isFilterAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, entity.FilterAll)
}
