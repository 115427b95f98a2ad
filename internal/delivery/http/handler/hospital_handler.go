package handler

import (
	"encoding/json"
	"net/http"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/usecase"
	"go-hospital-internment/pkg/response"
	"go-hospital-internment/pkg/validator"
)

type HospitalHandler struct {
	hospitalUsecase usecase.HospitalUsecase
	validator       *validator.CustomValidator
}

func NewHospitalHandler(hospitalUsecase usecase.HospitalUsecase, validator *validator.CustomValidator) *HospitalHandler {
	return &HospitalHandler{
		hospitalUsecase: hospitalUsecase,
		validator:       validator,
	}
}

func (h *HospitalHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.hospitalUsecase.GetProfile(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get hospital profile")
		return
	}

	response.Success(w, http.StatusOK, "Hospital profile retrieved successfully", converter.HospitalToResponse(profile))
}

func (h *HospitalHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.hospitalUsecase.UpdateProfile(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to update hospital profile")
		return
	}

	response.Success(w, http.StatusOK, "Hospital profile updated successfully", converter.HospitalToResponse(profile))
}
