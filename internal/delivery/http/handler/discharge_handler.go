package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/usecase"
	"go-hospital-internment/pkg/response"
	"go-hospital-internment/pkg/validator"

	"github.com/gorilla/mux"
)

type DischargeHandler struct {
	dischargeUsecase usecase.DischargeUsecase
	validator        *validator.CustomValidator
}

func NewDischargeHandler(dischargeUsecase usecase.DischargeUsecase, validator *validator.CustomValidator) *DischargeHandler {
	return &DischargeHandler{
		dischargeUsecase: dischargeUsecase,
		validator:        validator,
	}
}

func (h *DischargeHandler) GetDischarges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := func(id string) entity.SyncState {
		s, _ := h.dischargeUsecase.GetDischargeSyncState(ctx, id)
		return s
	}

	if patientID := r.URL.Query().Get("patient_id"); patientID != "" {
		discharge := h.dischargeUsecase.GetDischargeByPatientID(ctx, patientID)
		if discharge == nil {
			response.NotFound(w, "Discharge not found")
			return
		}
		response.Success(w, http.StatusOK, "Discharge retrieved successfully", converter.DischargeToResponse(discharge, state(discharge.ID)))
		return
	}

	discharges := h.dischargeUsecase.GetAllDischarges(ctx)
	response.Success(w, http.StatusOK, "Discharges retrieved successfully", &dto.DischargeListResponse{
		Discharges: converter.DischargesToResponses(discharges, state),
		Total:      len(discharges),
	})
}

// ProcessDischarge closes an internment and frees its bed
// @Summary Discharge a patient
// @Tags Discharges
// @Accept json
// @Produce json
// @Param request body dto.ProcessDischargeRequest true "Discharge Request"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /discharges [post]
func (h *DischargeHandler) ProcessDischarge(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessDischargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	discharge, err := h.dischargeUsecase.ProcessDischarge(r.Context(), &req)
	if err != nil {
		writeDischargeError(w, err, "Failed to process discharge")
		return
	}

	state, _ := h.dischargeUsecase.GetDischargeSyncState(r.Context(), discharge.ID)
	response.Success(w, http.StatusCreated, "Patient discharged successfully", converter.DischargeToResponse(discharge, state))
}

func (h *DischargeHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.dischargeUsecase.GetDischargeCandidateData(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDischargeError(w, err, "Failed to get discharge data")
		return
	}

	response.Success(w, http.StatusOK, "Discharge data retrieved successfully", &dto.DischargeCandidateResponse{
		PatientID:                candidate.PatientID,
		PatientName:              candidate.PatientName,
		Location:                 candidate.Location,
		AdmissionDate:            candidate.AdmissionDate,
		DaysOfInternment:         candidate.DaysOfInternment,
		Trend:                    trendToResponse(candidate.Trend),
		FeverThreshold:           candidate.FeverThreshold,
		LowSaturationThreshold:   candidate.LowSaturationThreshold,
		LowSaturationDescription: candidate.LowSaturationDescription,
	})
}

func (h *DischargeHandler) EvaluateEligibility(w http.ResponseWriter, r *http.Request) {
	result, err := h.dischargeUsecase.EvaluateEligibility(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDischargeError(w, err, "Failed to evaluate eligibility")
		return
	}

	response.Success(w, http.StatusOK, "Eligibility evaluated successfully", &dto.EligibilityResponse{
		PatientID: result.PatientID,
		Eligible:  result.Eligible,
		Reason:    result.Reason,
	})
}

func writeDischargeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrPatientAlreadyDischarged) {
		response.Conflict(w, "Patient is already discharged")
		return
	}
	writePatientError(w, err, fallback)
}
