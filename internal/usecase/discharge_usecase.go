package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/config"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var ErrPatientAlreadyDischarged = errors.New("patient is already discharged")

// PatientDischarges is the part of the patient lifecycle the discharge workflow drives
type PatientDischarges interface {
	GetPatient(ctx context.Context, id string) (*entity.Patient, error)
	SetDischargeEligibility(ctx context.Context, id string, eligible bool) error
	ApplyDischarge(ctx context.Context, id string) (*entity.Patient, error)
}

// TrendSummarizer is the part of the clinical diary the discharge workflow reads
type TrendSummarizer interface {
	GetPatientTrendSummary(ctx context.Context, patientID string, lastNDays int) TrendSummary
}

// DischargeCandidate joins the stay of a patient with the recent vital-sign trend
type DischargeCandidate struct {
	PatientID                string
	PatientName              string
	Location                 string
	AdmissionDate            *time.Time
	DaysOfInternment         int
	Trend                    TrendSummary
	FeverThreshold           float64
	LowSaturationThreshold   float64
	LowSaturationDescription string
}

type EligibilityResult struct {
	PatientID string
	Eligible  bool
	Reason    string
}

type DischargeUsecase interface {
	Start(ctx context.Context) error
	Stop()
	GetDischargeCandidateData(ctx context.Context, patientID string) (*DischargeCandidate, error)
	EvaluateEligibility(ctx context.Context, patientID string) (*EligibilityResult, error)
	ProcessDischarge(ctx context.Context, req *dto.ProcessDischargeRequest) (*entity.Discharge, error)
	GetAllDischarges(ctx context.Context) []entity.Discharge
	GetDischargeByPatientID(ctx context.Context, patientID string) *entity.Discharge
	GetDischargeSyncState(ctx context.Context, id string) (entity.SyncState, bool)
}

type dischargeUsecase struct {
	log      *logrus.Logger
	sync     *recordSync[entity.Discharge]
	patients PatientDischarges
	trends   TrendSummarizer
	clinical config.ClinicalConfig
	now      func() time.Time

	mu           sync.Mutex
	localCounter int
}

func NewDischargeUsecase(
	log *logrus.Logger,
	store repository.RecordStore,
	patients PatientDischarges,
	trends TrendSummarizer,
	clinical config.ClinicalConfig,
) DischargeUsecase {
	return &dischargeUsecase{
		log:      log,
		sync:     newRecordSync[entity.Discharge](store, log, entity.CollectionDischarges, "-dischargeDate"),
		patients: patients,
		trends:   trends,
		clinical: withClinicalDefaults(clinical),
		now:      time.Now,
	}
}

func (u *dischargeUsecase) Start(ctx context.Context) error {
	if _, err := u.sync.load(ctx); err != nil {
		u.log.Warnf("Failed to load discharges, starting empty: %+v", err)
	}
	u.sync.subscribe(ctx)
	return nil
}

func (u *dischargeUsecase) Stop() {
	u.sync.stop()
}

// GetDischargeCandidateData is a read-only join of stay and trend data
func (u *dischargeUsecase) GetDischargeCandidateData(ctx context.Context, patientID string) (*DischargeCandidate, error) {
	patient, err := u.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	return &DischargeCandidate{
		PatientID:                patient.ID,
		PatientName:              patient.Name,
		Location:                 patient.Location(),
		AdmissionDate:            patient.AdmissionDate,
		DaysOfInternment:         patient.DaysOfHospitalization(u.now()),
		Trend:                    u.trends.GetPatientTrendSummary(ctx, patient.ID, u.clinical.TrendWindowDays),
		FeverThreshold:           u.clinical.FeverThreshold,
		LowSaturationThreshold:   u.clinical.LowSaturationThreshold,
		LowSaturationDescription: fmt.Sprintf("SpO2 < %s%%", formatThreshold(u.clinical.LowSaturationThreshold)),
	}, nil
}

// EvaluateEligibility marks the patient eligible when the window has entries
// and none of them shows fever or low saturation
func (u *dischargeUsecase) EvaluateEligibility(ctx context.Context, patientID string) (*EligibilityResult, error) {
	candidate, err := u.GetDischargeCandidateData(ctx, patientID)
	if err != nil {
		return nil, err
	}

	result := &EligibilityResult{PatientID: candidate.PatientID}
	trend := candidate.Trend
	switch {
	case trend.TotalEntries == 0:
		result.Reason = fmt.Sprintf("no diary entries in the last %d days", trend.Days)
	case trend.DaysWithFever > 0:
		result.Reason = fmt.Sprintf("%d entries with temperature >= %s", trend.DaysWithFever, formatThreshold(candidate.FeverThreshold))
	case trend.DaysWithLowSaturation > 0:
		result.Reason = fmt.Sprintf("%d entries with %s", trend.DaysWithLowSaturation, candidate.LowSaturationDescription)
	default:
		result.Eligible = true
		result.Reason = fmt.Sprintf("stable over the last %d days", trend.Days)
	}

	if err := u.patients.SetDischargeEligibility(ctx, candidate.PatientID, result.Eligible); err != nil {
		u.log.Warnf("Failed to store discharge eligibility of patient %s: %+v", candidate.PatientID, err)
		return nil, err
	}
	return result, nil
}

// ProcessDischarge writes the discharge record and closes the internment.
// When the store rejects the record it is kept as local-only and the patient
// is still discharged, so both sides agree locally.
func (u *dischargeUsecase) ProcessDischarge(ctx context.Context, req *dto.ProcessDischargeRequest) (*entity.Discharge, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	patient, err := u.patients.GetPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !patient.IsActive() {
		return nil, ErrPatientAlreadyDischarged
	}

	candidate, err := u.GetDischargeCandidateData(ctx, patient.ID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	record := entity.Discharge{
		PatientID:             patient.ID,
		PatientName:           patient.Name,
		Location:              candidate.Location,
		DaysOfInternment:      candidate.DaysOfInternment,
		DaysWithFever:         candidate.Trend.DaysWithFever,
		DaysWithLowSaturation: candidate.Trend.DaysWithLowSaturation,
		DischargeNote:         strings.TrimSpace(req.DischargeNote),
		DischargeDate:         now,
		UpdatedAt:             now,
	}

	id, err := u.sync.add(ctx, record)
	if err != nil {
		u.localCounter++
		record.ID = fmt.Sprintf("local-%d", u.localCounter)
		u.sync.records.Put(record, entity.SyncStateLocalOnly)
		u.log.Warnf("Failed to store discharge of patient %s, kept locally as %s: %+v", patient.ID, record.ID, err)
	} else {
		record.ID = id
		if state, ok := u.sync.records.State(id); !ok || state != entity.SyncStateSynced {
			u.sync.records.Put(record, entity.SyncStatePending)
		}
	}

	if _, err := u.patients.ApplyDischarge(ctx, patient.ID); err != nil {
		u.log.Warnf("Failed to discharge patient %s: %+v", patient.ID, err)
		return nil, err
	}

	return &record, nil
}

// GetAllDischarges returns every discharge, newest first
func (u *dischargeUsecase) GetAllDischarges(ctx context.Context) []entity.Discharge {
	discharges := u.sync.records.List()
	sortNewestFirst(discharges, func(d entity.Discharge) time.Time { return d.DischargeDate })
	return discharges
}

// GetDischargeByPatientID returns the latest discharge of a patient, or nil
func (u *dischargeUsecase) GetDischargeByPatientID(ctx context.Context, patientID string) *entity.Discharge {
	discharges := u.sync.records.Filter(func(d entity.Discharge) bool {
		return d.PatientID == patientID
	})
	if len(discharges) == 0 {
		return nil
	}
	sortNewestFirst(discharges, func(d entity.Discharge) time.Time { return d.DischargeDate })
	return &discharges[0]
}

func (u *dischargeUsecase) GetDischargeSyncState(ctx context.Context, id string) (entity.SyncState, bool) {
	return u.sync.records.State(id)
}

func formatThreshold(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
