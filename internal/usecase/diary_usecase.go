package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/config"
	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TrendSummary aggregates the vital signs of a patient over a recent window
type TrendSummary struct {
	PatientID             string
	Days                  int
	Since                 time.Time
	TotalEntries          int
	AverageTemperature    *float64
	AverageSpO2           *int
	DaysWithFever         int
	DaysWithLowSaturation int
}

type DiaryUsecase interface {
	Start(ctx context.Context) error
	Stop()
	CreateDiaryEntry(ctx context.Context, req *dto.CreateDiaryEntryRequest) (*entity.DiaryEntry, error)
	GetAllDiaries(ctx context.Context) []entity.DiaryEntry
	GetDiariesByPatientID(ctx context.Context, patientID string) []entity.DiaryEntry
	GetLastDiaryByPatientID(ctx context.Context, patientID string) *entity.DiaryEntry
	GetDiarySyncState(ctx context.Context, id string) (entity.SyncState, bool)
	GetPatientTrendSummary(ctx context.Context, patientID string, lastNDays int) TrendSummary
}

type diaryUsecase struct {
	log      *logrus.Logger
	sync     *recordSync[entity.DiaryEntry]
	clinical config.ClinicalConfig
	now      func() time.Time

	mu           sync.Mutex
	localCounter int
}

const (
	defaultFeverThreshold         = 38.0
	defaultLowSaturationThreshold = 90.0
	defaultTrendWindowDays        = 3
)

func NewDiaryUsecase(log *logrus.Logger, store repository.RecordStore, clinical config.ClinicalConfig) DiaryUsecase {
	return &diaryUsecase{
		log:      log,
		sync:     newRecordSync[entity.DiaryEntry](store, log, entity.CollectionDiaries, "-date"),
		clinical: withClinicalDefaults(clinical),
		now:      time.Now,
	}
}

func (u *diaryUsecase) Start(ctx context.Context) error {
	if _, err := u.sync.load(ctx); err != nil {
		u.log.Warnf("Failed to load diaries, starting empty: %+v", err)
	}
	u.sync.subscribe(ctx)
	u.log.WithField("diaries", u.sync.records.Len()).Info("Clinical diary started")
	return nil
}

func (u *diaryUsecase) Stop() {
	u.sync.stop()
}

// CreateDiaryEntry stamps and stores a new entry.
// The entry is tracked as pending until a snapshot confirms it; when the store
// rejects the write it is kept as local-only under a synthesized id.
func (u *diaryUsecase) CreateDiaryEntry(ctx context.Context, req *dto.CreateDiaryEntryRequest) (*entity.DiaryEntry, error) {
	if strings.TrimSpace(req.PatientID) == "" {
		return nil, ErrPatientNotFound
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	entry := converter.DiaryEntryFromRequest(req)
	entry.Date = now
	entry.UpdatedAt = now

	id, err := u.sync.add(ctx, entry)
	if err != nil {
		u.localCounter++
		entry.ID = fmt.Sprintf("local-%d", u.localCounter)
		u.sync.records.Put(entry, entity.SyncStateLocalOnly)
		u.log.Warnf("Failed to store diary entry for patient %s, kept locally as %s: %+v", entry.PatientID, entry.ID, err)
		return &entry, nil
	}

	entry.ID = id
	if state, ok := u.sync.records.State(id); !ok || state != entity.SyncStateSynced {
		u.sync.records.Put(entry, entity.SyncStatePending)
	}
	return &entry, nil
}

// GetAllDiaries returns every entry, newest first
func (u *diaryUsecase) GetAllDiaries(ctx context.Context) []entity.DiaryEntry {
	entries := u.sync.records.List()
	sortNewestFirst(entries, func(d entity.DiaryEntry) time.Time { return d.Date })
	return entries
}

// GetDiariesByPatientID returns the entries of one patient, newest first
func (u *diaryUsecase) GetDiariesByPatientID(ctx context.Context, patientID string) []entity.DiaryEntry {
	entries := u.sync.records.Filter(func(d entity.DiaryEntry) bool {
		return d.PatientID == patientID
	})
	sortNewestFirst(entries, func(d entity.DiaryEntry) time.Time { return d.Date })
	return entries
}

func (u *diaryUsecase) GetLastDiaryByPatientID(ctx context.Context, patientID string) *entity.DiaryEntry {
	entries := u.GetDiariesByPatientID(ctx, patientID)
	if len(entries) == 0 {
		return nil
	}
	return &entries[0]
}

func (u *diaryUsecase) GetDiarySyncState(ctx context.Context, id string) (entity.SyncState, bool) {
	return u.sync.records.State(id)
}

// GetPatientTrendSummary aggregates entries dated from midnight lastNDays ago.
// Temperature is averaged to one decimal and SpO2 to an integer.
func (u *diaryUsecase) GetPatientTrendSummary(ctx context.Context, patientID string, lastNDays int) TrendSummary {
	if lastNDays <= 0 {
		lastNDays = u.clinical.TrendWindowDays
	}

	now := u.now()
	y, m, d := now.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -lastNDays)

	summary := TrendSummary{
		PatientID: patientID,
		Days:      lastNDays,
		Since:     since,
	}

	tempSum, spo2Sum := decimal.Zero, decimal.Zero
	tempCount, spo2Count := 0, 0

	for _, entry := range u.GetDiariesByPatientID(ctx, patientID) {
		if entry.Date.Before(since) {
			continue
		}
		summary.TotalEntries++

		if t, ok := entry.TemperatureValue(); ok {
			tempSum = tempSum.Add(decimal.NewFromFloat(t))
			tempCount++
			if t >= u.clinical.FeverThreshold {
				summary.DaysWithFever++
			}
		}
		if s, ok := entry.SpO2Value(); ok {
			spo2Sum = spo2Sum.Add(decimal.NewFromFloat(s))
			spo2Count++
			if s < u.clinical.LowSaturationThreshold {
				summary.DaysWithLowSaturation++
			}
		}
	}

	if tempCount > 0 {
		avg, _ := tempSum.Div(decimal.NewFromInt(int64(tempCount))).Round(1).Float64()
		summary.AverageTemperature = &avg
	}
	if spo2Count > 0 {
		avg := int(spo2Sum.Div(decimal.NewFromInt(int64(spo2Count))).Round(0).IntPart())
		summary.AverageSpO2 = &avg
	}

	return summary
}

func withClinicalDefaults(c config.ClinicalConfig) config.ClinicalConfig {
	if c.FeverThreshold <= 0 {
		c.FeverThreshold = defaultFeverThreshold
	}
	if c.LowSaturationThreshold <= 0 {
		c.LowSaturationThreshold = defaultLowSaturationThreshold
	}
	if c.TrendWindowDays <= 0 {
		c.TrendWindowDays = defaultTrendWindowDays
	}
	return c
}
