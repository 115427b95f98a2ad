package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/usecase"
	"go-hospital-internment/pkg/response"
	"go-hospital-internment/pkg/validator"

	"github.com/gorilla/mux"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
	now            func() time.Time
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
		now:            time.Now,
	}
}

// GetPatients lists patients, narrowed by the optional q, service and status filters
// @Summary List patients
// @Tags Patients
// @Produce json
// @Param q query string false "Name, email or user number"
// @Param service query string false "Clinical service, 'todos' for all"
// @Param status query string false "Patient status, 'todos' for all"
// @Success 200 {object} response.Response
// @Router /patients [get]
func (h *PatientHandler) GetPatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	patients := h.patientUsecase.GetAllPatients(ctx)
	if q := strings.TrimSpace(query.Get("q")); q != "" {
		patients = intersectPatients(patients, h.patientUsecase.SearchPatients(ctx, q))
	}
	if svc := query.Get("service"); svc != "" {
		patients = intersectPatients(patients, h.patientUsecase.FilterByService(ctx, svc))
	}
	if status := query.Get("status"); status != "" {
		patients = intersectPatients(patients, h.patientUsecase.FilterByStatus(ctx, status))
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients, h.now()),
		Total:    len(patients),
	})
}

// AdmitPatient registers a new internment and returns the generated credentials once
// @Summary Admit a patient
// @Tags Patients
// @Accept json
// @Produce json
// @Param request body dto.AdmitPatientRequest true "Admission Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients [post]
func (h *PatientHandler) AdmitPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.AdmitPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.patientUsecase.AdmitPatient(r.Context(), &req)
	if err != nil {
		writePatientError(w, err, "Failed to admit patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient admitted successfully",
		converter.AdmissionToResponse(&result.Patient, result.Credentials, h.now()))
}

func (h *PatientHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats := h.patientUsecase.GetDashboardStats(r.Context())

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", &dto.DashboardStatsResponse{
		ActivePatientsCount:       stats.ActivePatientsCount,
		TotalInternments:          stats.TotalInternments,
		PendingValidationCount:    stats.PendingValidationCount,
		EligibleForDischargeCount: stats.EligibleForDischargeCount,
	})
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.GetPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writePatientError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", converter.PatientToResponse(patient, h.now()))
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writePatientError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", converter.PatientToResponse(patient, h.now()))
}

// VerifyAccessCode lets relatives check a family access code without a session
func (h *PatientHandler) VerifyAccessCode(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyAccessCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	valid, err := h.patientUsecase.VerifyAccessCode(r.Context(), mux.Vars(r)["id"], req.AccessCode)
	if err != nil {
		writePatientError(w, err, "Failed to verify access code")
		return
	}
	if !valid {
		response.Unauthorized(w, "Invalid access code")
		return
	}

	response.Success(w, http.StatusOK, "Access code verified", &dto.VerifyAccessCodeResponse{Valid: true})
}

func writePatientError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrInvalidPatientData), errors.Is(err, usecase.ErrIncompletePlacement):
		response.BadRequest(w, err.Error())
	default:
		writeWardError(w, err, fallback)
	}
}

// intersectPatients keeps the patients of base that also appear in filter, in base order
func intersectPatients(base, filter []entity.Patient) []entity.Patient {
	keep := make(map[string]bool, len(filter))
	for _, p := range filter {
		keep[p.ID] = true
	}
	out := make([]entity.Patient, 0, len(base))
	for _, p := range base {
		if keep[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
