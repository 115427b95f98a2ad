package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrDuplicateCRM = errors.New("a doctor with this CRM already exists")

type DoctorUsecase interface {
	Start(ctx context.Context) error
	Stop()
	ListDoctors(ctx context.Context) []entity.Doctor
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*entity.Doctor, error)
}

type doctorUsecase struct {
	log  *logrus.Logger
	sync *recordSync[entity.Doctor]
	seed []entity.Doctor
	now  func() time.Time

	mu sync.Mutex
}

// NewDoctorUsecase creates the doctor registry. seed is used when the store
// cannot be read or holds no doctors yet.
func NewDoctorUsecase(log *logrus.Logger, store repository.RecordStore, seed []entity.Doctor) DoctorUsecase {
	return &doctorUsecase{
		log:  log,
		sync: newRecordSync[entity.Doctor](store, log, entity.CollectionDoctors, "name"),
		seed: seed,
		now:  time.Now,
	}
}

func (u *doctorUsecase) Start(ctx context.Context) error {
	count, err := u.sync.load(ctx)
	switch {
	case err != nil:
		u.log.Warnf("Failed to load doctors, using built-in doctors: %+v", err)
		u.useSeed(ctx)
	case len(u.seed) > 0:
		u.sync.seedOnce(ctx, count, func() int { return u.useSeed(ctx) })
	}
	u.sync.subscribe(ctx)
	return nil
}

func (u *doctorUsecase) Stop() {
	u.sync.stop()
}

func (u *doctorUsecase) useSeed(ctx context.Context) int {
	for _, d := range u.seed {
		u.sync.records.Put(d, entity.SyncStateLocalOnly)
	}
	written := 0
	for _, d := range u.seed {
		if err := u.sync.set(ctx, d); err != nil {
			u.log.Warnf("Failed to migrate built-in doctor %s: %+v", d.Name, err)
			continue
		}
		u.sync.records.MarkSynced(d.ID, d.UpdatedAt)
		written++
	}
	return written
}

// ListDoctors returns the staff ordered by name
func (u *doctorUsecase) ListDoctors(ctx context.Context) []entity.Doctor {
	doctors := u.sync.records.List()
	sort.SliceStable(doctors, func(i, j int) bool {
		return strings.ToLower(doctors[i].Name) < strings.ToLower(doctors[j].Name)
	})
	return doctors
}

// CreateDoctor registers a physician; the CRM must be unique
func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*entity.Doctor, error) {
	crm := strings.ToUpper(strings.TrimSpace(req.CRM))

	u.mu.Lock()
	defer u.mu.Unlock()

	existing := u.sync.records.Filter(func(d entity.Doctor) bool {
		return strings.EqualFold(d.CRM, crm)
	})
	if len(existing) > 0 {
		return nil, ErrDuplicateCRM
	}

	now := u.now()
	doctor := entity.Doctor{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		CRM:       crm,
		Specialty: strings.TrimSpace(req.Specialty),
		Email:     strings.TrimSpace(req.Email),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.sync.commit(entity.Doctor{}, false, doctor, func() error { return u.sync.set(ctx, doctor) }); err != nil {
		u.log.Warnf("Failed to create doctor %s: %+v", doctor.Name, err)
		return nil, err
	}
	return &doctor, nil
}
