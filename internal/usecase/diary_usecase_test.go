package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDiary(t *testing.T, h *hospital, patientID, temperature, spo2 string) *entity.DiaryEntry {
	t.Helper()
	entry, err := h.diaries.CreateDiaryEntry(context.Background(), &dto.CreateDiaryEntryRequest{
		PatientID: patientID,
		Vitals:    dto.VitalsDTO{Temperature: temperature, SpO2: spo2},
	})
	require.NoError(t, err)
	return entry
}

func TestDiaryUsecase_CreateDiaryEntry(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	_, err := h.diaries.CreateDiaryEntry(ctx, &dto.CreateDiaryEntryRequest{PatientID: " "})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	first := writeDiary(t, h, "p1", "36,8", "97%")
	second := writeDiary(t, h, "p1", "37.0", "96")
	writeDiary(t, h, "p2", "36.5", "98")

	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Date.IsZero())

	state, ok := h.diaries.GetDiarySyncState(ctx, first.ID)
	require.True(t, ok)
	assert.Equal(t, entity.SyncStateSynced, state)

	entries := h.diaries.GetDiariesByPatientID(ctx, "p1")
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)

	last := h.diaries.GetLastDiaryByPatientID(ctx, "p1")
	require.NotNil(t, last)
	assert.Equal(t, second.ID, last.ID)

	assert.Nil(t, h.diaries.GetLastDiaryByPatientID(ctx, "nobody"))
	assert.Len(t, h.diaries.GetAllDiaries(ctx), 3)
}

func TestDiaryUsecase_KeepsEntryLocallyWhenStoreFails(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	h.store.setFailWrites(entity.CollectionDiaries, true)
	first := writeDiary(t, h, "p1", "37", "95")
	second := writeDiary(t, h, "p1", "37", "95")

	assert.Equal(t, "local-1", first.ID)
	assert.Equal(t, "local-2", second.ID)

	state, ok := h.diaries.GetDiarySyncState(ctx, first.ID)
	require.True(t, ok)
	assert.Equal(t, entity.SyncStateLocalOnly, state)

	// a later snapshot without the entry must not drop it
	h.store.setFailWrites(entity.CollectionDiaries, false)
	writeDiary(t, h, "p1", "36.9", "97")

	assert.Len(t, h.diaries.GetDiariesByPatientID(ctx, "p1"), 3)
}

func TestDiaryUsecase_GetPatientTrendSummary(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	// outside a three day window
	h.clock.Set(time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC))
	writeDiary(t, h, "p1", "40", "80")

	h.clock.Set(time.Date(2024, time.March, 7, 8, 0, 0, 0, time.UTC))
	writeDiary(t, h, "p1", "37,5", "97%")
	h.clock.Set(time.Date(2024, time.March, 8, 8, 0, 0, 0, time.UTC))
	writeDiary(t, h, "p1", "38.5", "89")
	h.clock.Set(time.Date(2024, time.March, 9, 8, 0, 0, 0, time.UTC))
	writeDiary(t, h, "p1", "38.6°C", "95")
	writeDiary(t, h, "p1", "", "")
	writeDiary(t, h, "p2", "39", "85")

	h.clock.Set(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	summary := h.diaries.GetPatientTrendSummary(ctx, "p1", 3)

	assert.Equal(t, 3, summary.Days)
	assert.Equal(t, time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC), summary.Since)
	assert.Equal(t, 4, summary.TotalEntries)
	require.NotNil(t, summary.AverageTemperature)
	assert.Equal(t, 38.2, *summary.AverageTemperature)
	require.NotNil(t, summary.AverageSpO2)
	assert.Equal(t, 94, *summary.AverageSpO2)
	assert.Equal(t, 2, summary.DaysWithFever)
	assert.Equal(t, 1, summary.DaysWithLowSaturation)

	wide := h.diaries.GetPatientTrendSummary(ctx, "p1", 10)
	assert.Equal(t, 5, wide.TotalEntries)
	assert.Equal(t, 3, wide.DaysWithFever)
}

func TestDiaryUsecase_TrendWithoutMeasurements(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	writeDiary(t, h, "p1", "n/a", strings.Repeat(" ", 2))

	summary := h.diaries.GetPatientTrendSummary(ctx, "p1", 0)
	assert.Equal(t, testClinical.TrendWindowDays, summary.Days)
	assert.Equal(t, 1, summary.TotalEntries)
	assert.Nil(t, summary.AverageTemperature)
	assert.Nil(t, summary.AverageSpO2)
	assert.Zero(t, summary.DaysWithFever)
	assert.Zero(t, summary.DaysWithLowSaturation)

	empty := h.diaries.GetPatientTrendSummary(ctx, "nobody", 3)
	assert.Zero(t, empty.TotalEntries)
	assert.Nil(t, empty.AverageTemperature)
}

func TestDiaryUsecase_TrendIgnoresUnreadableVitals(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	writeDiary(t, h, "p1", "37.0", "96")
	writeDiary(t, h, "p1", "abc", "NaN")
	writeDiary(t, h, "p1", "NaN", "Inf")
	writeDiary(t, h, "p1", "+Inf", "abc")
	writeDiary(t, h, "p1", "39.0", "88")

	var summary TrendSummary
	require.NotPanics(t, func() {
		summary = h.diaries.GetPatientTrendSummary(ctx, "p1", 3)
	})

	assert.Equal(t, 5, summary.TotalEntries)
	require.NotNil(t, summary.AverageTemperature)
	assert.Equal(t, 38.0, *summary.AverageTemperature)
	require.NotNil(t, summary.AverageSpO2)
	assert.Equal(t, 92, *summary.AverageSpO2)
	assert.Equal(t, 1, summary.DaysWithFever)
	assert.Equal(t, 1, summary.DaysWithLowSaturation)
}
