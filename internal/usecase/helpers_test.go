package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go-hospital-internment/config"
	"go-hospital-internment/internal/domain/entity"
	domainRepo "go-hospital-internment/internal/domain/repository"
	"go-hospital-internment/internal/repository"
	"go-hospital-internment/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errStoreDown = errors.New("store unavailable")

// flakyStore wraps the in-memory store and fails reads or writes on demand
type flakyStore struct {
	*repository.MemoryRecordStore

	mu         sync.Mutex
	failReads  bool
	failWrites map[string]bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{
		MemoryRecordStore: repository.NewMemoryRecordStore(),
		failWrites:        make(map[string]bool),
	}
}

func (s *flakyStore) setFailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = fail
}

func (s *flakyStore) setFailWrites(collection string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites[collection] = fail
}

func (s *flakyStore) readFails() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failReads
}

func (s *flakyStore) writeFails(collection string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failWrites[collection]
}

func (s *flakyStore) GetAll(ctx context.Context, collection string, orderBy string) ([]domainRepo.Document, error) {
	if s.readFails() {
		return nil, errStoreDown
	}
	return s.MemoryRecordStore.GetAll(ctx, collection, orderBy)
}

func (s *flakyStore) Subscribe(ctx context.Context, collection string, orderBy string, onSnapshot domainRepo.SnapshotFunc, onError domainRepo.ErrorFunc) (func(), error) {
	if s.readFails() {
		return nil, errStoreDown
	}
	return s.MemoryRecordStore.Subscribe(ctx, collection, orderBy, onSnapshot, onError)
}

func (s *flakyStore) Add(ctx context.Context, collection string, fields entity.JSON) (string, error) {
	if s.writeFails(collection) {
		return "", errStoreDown
	}
	return s.MemoryRecordStore.Add(ctx, collection, fields)
}

func (s *flakyStore) Set(ctx context.Context, collection string, id string, fields entity.JSON) error {
	if s.writeFails(collection) {
		return errStoreDown
	}
	return s.MemoryRecordStore.Set(ctx, collection, id, fields)
}

func (s *flakyStore) Update(ctx context.Context, collection string, id string, fields entity.JSON) error {
	if s.writeFails(collection) {
		return errStoreDown
	}
	return s.MemoryRecordStore.Update(ctx, collection, id, fields)
}

func (s *flakyStore) Delete(ctx context.Context, collection string, id string) error {
	if s.writeFails(collection) {
		return errStoreDown
	}
	return s.MemoryRecordStore.Delete(ctx, collection, id)
}

// capturingNotifier records delivered credentials instead of sending them
type capturingNotifier struct {
	mu        sync.Mutex
	delivered map[string]entity.PatientCredentials
}

func (n *capturingNotifier) SendCredentials(_ context.Context, patient entity.Patient, creds entity.PatientCredentials) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delivered == nil {
		n.delivered = make(map[string]entity.PatientCredentials)
	}
	n.delivered[patient.ID] = creds
	return nil
}

// clock is a manually advanced time source
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(start time.Time) *clock {
	return &clock{now: start}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var testClinical = config.ClinicalConfig{
	FeverThreshold:         38,
	LowSaturationThreshold: 90,
	TrendWindowDays:        3,
}

// hospital wires every controller over one store, the way bootstrap does
type hospital struct {
	store      *flakyStore
	clock      *clock
	notifier   *capturingNotifier
	wards      *wardUsecase
	patients   *patientUsecase
	diaries    *diaryUsecase
	validation *validationUsecase
	discharges *dischargeUsecase
	messages   *messageUsecase
}

func newHospital(t *testing.T, seed []entity.Ward) *hospital {
	t.Helper()

	log := testLogger()
	store := newFlakyStore()
	clk := newClock(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	notifier := &capturingNotifier{}
	audit := service.NewAuditService(store, log)
	creds := service.NewCredentialService(notifier, log, bcrypt.MinCost)

	wards := NewWardUsecase(log, store, audit, nil, seed).(*wardUsecase)
	wards.now = clk.Now
	patients := NewPatientUsecase(log, store, wards, creds, audit, nil).(*patientUsecase)
	patients.now = clk.Now
	diaries := NewDiaryUsecase(log, store, testClinical).(*diaryUsecase)
	diaries.now = clk.Now
	validation := NewValidationUsecase(log, store, patients, audit, nil).(*validationUsecase)
	validation.now = clk.Now
	discharges := NewDischargeUsecase(log, store, patients, diaries, testClinical).(*dischargeUsecase)
	discharges.now = clk.Now
	messages := NewMessageUsecase(log, store, patients).(*messageUsecase)
	messages.now = clk.Now

	ctx := context.Background()
	for _, u := range []interface {
		Start(ctx context.Context) error
		Stop()
	}{wards, patients, diaries, validation, discharges, messages} {
		require.NoError(t, u.Start(ctx))
		t.Cleanup(u.Stop)
	}

	return &hospital{
		store:      store,
		clock:      clk,
		notifier:   notifier,
		wards:      wards,
		patients:   patients,
		diaries:    diaries,
		validation: validation,
		discharges: discharges,
		messages:   messages,
	}
}

func oneWard(name string, beds int) []entity.Ward {
	w, _ := entity.NewWard(name, "Clínica Médica", beds)
	w.ID = "ward-" + name
	w.CreatedAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	w.UpdatedAt = w.CreatedAt
	return []entity.Ward{w}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
