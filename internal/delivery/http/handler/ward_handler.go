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

type WardHandler struct {
	wardUsecase usecase.WardUsecase
	validator   *validator.CustomValidator
}

func NewWardHandler(wardUsecase usecase.WardUsecase, validator *validator.CustomValidator) *WardHandler {
	return &WardHandler{
		wardUsecase: wardUsecase,
		validator:   validator,
	}
}

func (h *WardHandler) GetAllWards(w http.ResponseWriter, r *http.Request) {
	wards := h.wardUsecase.GetAllWards(r.Context())

	response.Success(w, http.StatusOK, "Wards retrieved successfully", &dto.WardListResponse{
		Wards: converter.WardsToResponses(wards),
		Total: len(wards),
	})
}

func (h *WardHandler) GetWard(w http.ResponseWriter, r *http.Request) {
	ward, err := h.wardUsecase.GetWard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeWardError(w, err, "Failed to get ward")
		return
	}

	response.Success(w, http.StatusOK, "Ward retrieved successfully", converter.WardToResponse(ward))
}

func (h *WardHandler) CreateWard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	ward, err := h.wardUsecase.AddWard(r.Context(), &req)
	if err != nil {
		writeWardError(w, err, "Failed to create ward")
		return
	}

	response.Success(w, http.StatusCreated, "Ward created successfully", converter.WardToResponse(ward))
}

func (h *WardHandler) GetAvailableWards(w http.ResponseWriter, r *http.Request) {
	wards := h.wardUsecase.ListAvailableWards(r.Context())

	response.Success(w, http.StatusOK, "Available wards retrieved successfully", converter.WardsToAvailability(wards))
}

func (h *WardHandler) ResizeWard(w http.ResponseWriter, r *http.Request) {
	var req dto.ResizeWardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	ward, err := h.wardUsecase.ResizeWard(r.Context(), mux.Vars(r)["id"], req.BedCount)
	if err != nil {
		writeWardError(w, err, "Failed to resize ward")
		return
	}

	response.Success(w, http.StatusOK, "Ward resized successfully", converter.WardToResponse(ward))
}

func (h *WardHandler) UpdateWardStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateWardStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	ward, err := h.wardUsecase.SetWardStatus(r.Context(), mux.Vars(r)["id"], entity.WardStatus(req.Status))
	if err != nil {
		writeWardError(w, err, "Failed to update ward status")
		return
	}

	response.Success(w, http.StatusOK, "Ward status updated successfully", converter.WardToResponse(ward))
}

func (h *WardHandler) DeleteWard(w http.ResponseWriter, r *http.Request) {
	if err := h.wardUsecase.DeleteWard(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeWardError(w, err, "Failed to delete ward")
		return
	}

	response.Success(w, http.StatusOK, "Ward deleted successfully", nil)
}

func (h *WardHandler) GetAvailableBeds(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	beds, err := h.wardUsecase.ListAvailableBeds(r.Context(), name)
	if err != nil {
		writeWardError(w, err, "Failed to get available beds")
		return
	}

	response.Success(w, http.StatusOK, "Available beds retrieved successfully", &dto.AvailableBedsResponse{
		Ward: name,
		Beds: beds,
	})
}

func (h *WardHandler) OccupyBed(w http.ResponseWriter, r *http.Request) {
	var req dto.OccupyBedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	vars := mux.Vars(r)
	if err := h.wardUsecase.OccupyBed(r.Context(), vars["name"], vars["bed"], req.PatientID); err != nil {
		writeWardError(w, err, "Failed to occupy bed")
		return
	}

	response.Success(w, http.StatusOK, "Bed occupied successfully", nil)
}

func (h *WardHandler) FreeBed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.wardUsecase.FreeBed(r.Context(), vars["name"], vars["bed"]); err != nil {
		writeWardError(w, err, "Failed to free bed")
		return
	}

	response.Success(w, http.StatusOK, "Bed freed successfully", nil)
}

// writeWardError maps allocator errors; admissions reuse it for bed failures
func writeWardError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrWardNotFound):
		response.NotFound(w, "Ward not found")
	case errors.Is(err, usecase.ErrBedNotFound):
		response.NotFound(w, "Bed not found")
	case errors.Is(err, usecase.ErrDuplicateWard):
		response.Conflict(w, "A ward with this name already exists")
	case errors.Is(err, usecase.ErrBedAlreadyOccupied):
		response.Conflict(w, "Bed is already occupied")
	case errors.Is(err, usecase.ErrWardInactive):
		response.Conflict(w, "Ward is not accepting patients")
	case errors.Is(err, usecase.ErrCapacityExceeded):
		response.Conflict(w, "Ward has more occupied beds than the requested capacity")
	case errors.Is(err, usecase.ErrOccupiedWard):
		response.Conflict(w, "Ward still has occupied beds")
	case errors.Is(err, usecase.ErrInvalidWardStatus), errors.Is(err, entity.ErrInvalidBedCount):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
