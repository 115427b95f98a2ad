package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/usecase"
	"go-hospital-internment/pkg/response"
	"go-hospital-internment/pkg/validator"

	"github.com/gorilla/mux"
)

type DiaryHandler struct {
	diaryUsecase   usecase.DiaryUsecase
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewDiaryHandler(diaryUsecase usecase.DiaryUsecase, patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *DiaryHandler {
	return &DiaryHandler{
		diaryUsecase:   diaryUsecase,
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *DiaryHandler) GetAllDiaries(w http.ResponseWriter, r *http.Request) {
	entries := h.diaryUsecase.GetAllDiaries(r.Context())

	response.Success(w, http.StatusOK, "Diary entries retrieved successfully", &dto.DiaryListResponse{
		Diaries: converter.DiaryEntriesToResponses(entries, h.syncState(r)),
		Total:   len(entries),
	})
}

func (h *DiaryHandler) GetPatientDiaries(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	if _, err := h.patientUsecase.GetPatient(r.Context(), patientID); err != nil {
		writePatientError(w, err, "Failed to get diary entries")
		return
	}

	entries := h.diaryUsecase.GetDiariesByPatientID(r.Context(), patientID)

	response.Success(w, http.StatusOK, "Diary entries retrieved successfully", &dto.DiaryListResponse{
		Diaries: converter.DiaryEntriesToResponses(entries, h.syncState(r)),
		Total:   len(entries),
	})
}

// CreateDiaryEntry records a daily clinical observation for an existing patient
// @Summary Create diary entry
// @Tags Diaries
// @Accept json
// @Produce json
// @Param request body dto.CreateDiaryEntryRequest true "Diary Entry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id}/diaries [post]
func (h *DiaryHandler) CreateDiaryEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDiaryEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if patientID, ok := mux.Vars(r)["id"]; ok {
		req.PatientID = patientID
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if _, err := h.patientUsecase.GetPatient(r.Context(), req.PatientID); err != nil {
		writePatientError(w, err, "Failed to create diary entry")
		return
	}

	entry, err := h.diaryUsecase.CreateDiaryEntry(r.Context(), &req)
	if err != nil {
		writePatientError(w, err, "Failed to create diary entry")
		return
	}

	state, _ := h.diaryUsecase.GetDiarySyncState(r.Context(), entry.ID)
	response.Success(w, http.StatusCreated, "Diary entry created successfully", converter.DiaryEntryToResponse(entry, state))
}

func (h *DiaryHandler) GetLastDiary(w http.ResponseWriter, r *http.Request) {
	entry := h.diaryUsecase.GetLastDiaryByPatientID(r.Context(), mux.Vars(r)["id"])
	if entry == nil {
		response.NotFound(w, "No diary entries for this patient")
		return
	}

	state, _ := h.diaryUsecase.GetDiarySyncState(r.Context(), entry.ID)
	response.Success(w, http.StatusOK, "Diary entry retrieved successfully", converter.DiaryEntryToResponse(entry, state))
}

// GetTrend summarizes vital signs over ?days (the configured window when omitted)
func (h *DiaryHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(w, "days must be a positive integer")
			return
		}
		days = n
	}

	patientID := mux.Vars(r)["id"]
	if _, err := h.patientUsecase.GetPatient(r.Context(), patientID); err != nil {
		writePatientError(w, err, "Failed to get trend")
		return
	}

	summary := h.diaryUsecase.GetPatientTrendSummary(r.Context(), patientID, days)
	response.Success(w, http.StatusOK, "Trend retrieved successfully", trendToResponse(summary))
}

func (h *DiaryHandler) syncState(r *http.Request) func(id string) entity.SyncState {
	return func(id string) entity.SyncState {
		state, _ := h.diaryUsecase.GetDiarySyncState(r.Context(), id)
		return state
	}
}

func trendToResponse(summary usecase.TrendSummary) dto.TrendSummaryResponse {
	return dto.TrendSummaryResponse{
		PatientID:             summary.PatientID,
		Days:                  summary.Days,
		TotalEntries:          summary.TotalEntries,
		AverageTemperature:    summary.AverageTemperature,
		AverageSpO2:           summary.AverageSpO2,
		DaysWithFever:         summary.DaysWithFever,
		DaysWithLowSaturation: summary.DaysWithLowSaturation,
	}
}
