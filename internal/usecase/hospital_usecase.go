package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type HospitalUsecase interface {
	GetProfile(ctx context.Context) (*entity.HospitalProfile, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateHospitalRequest) (*entity.HospitalProfile, error)
}

type hospitalUsecase struct {
	log   *logrus.Logger
	store repository.RecordStore
	now   func() time.Time

	mu sync.Mutex
}

func NewHospitalUsecase(log *logrus.Logger, store repository.RecordStore) HospitalUsecase {
	return &hospitalUsecase{
		log:   log,
		store: store,
		now:   time.Now,
	}
}

// GetProfile reads the hospital/data singleton; a missing document yields an empty profile
func (u *hospitalUsecase) GetProfile(ctx context.Context) (*entity.HospitalProfile, error) {
	doc, err := u.store.Get(ctx, entity.CollectionHospital, entity.HospitalDocumentID)
	if err != nil {
		u.log.Warnf("Failed to load hospital profile: %+v", err)
		return nil, err
	}
	if doc == nil {
		return &entity.HospitalProfile{Services: []string{}}, nil
	}

	profile, err := converter.FromDocument[entity.HospitalProfile](*doc)
	if err != nil {
		u.log.Warnf("Failed to decode hospital profile: %+v", err)
		return nil, err
	}
	if profile.Services == nil {
		profile.Services = []string{}
	}
	return &profile, nil
}

// UpdateProfile replaces the hospital/data singleton
func (u *hospitalUsecase) UpdateProfile(ctx context.Context, req *dto.UpdateHospitalRequest) (*entity.HospitalProfile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	services := make([]string, 0, len(req.Services))
	for _, s := range req.Services {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}

	profile := entity.HospitalProfile{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		Services:  services,
		UpdatedAt: u.now(),
	}

	fields, err := converter.ToFields(profile)
	if err != nil {
		return nil, err
	}
	if err := u.store.Set(ctx, entity.CollectionHospital, entity.HospitalDocumentID, fields); err != nil {
		u.log.Warnf("Failed to update hospital profile: %+v", err)
		return nil, err
	}
	return &profile, nil
}
