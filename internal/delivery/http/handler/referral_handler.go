package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/delivery/http/middleware"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/usecase"
	"go-hospital-internment/pkg/response"
	"go-hospital-internment/pkg/validator"

	"github.com/gorilla/mux"
)

type ReferralHandler struct {
	validationUsecase usecase.ValidationUsecase
	validator         *validator.CustomValidator
}

func NewReferralHandler(validationUsecase usecase.ValidationUsecase, validator *validator.CustomValidator) *ReferralHandler {
	return &ReferralHandler{
		validationUsecase: validationUsecase,
		validator:         validator,
	}
}

// GetReferrals returns the pending queue, or every request of ?patient_id
func (h *ReferralHandler) GetReferrals(w http.ResponseWriter, r *http.Request) {
	var requests []entity.ValidationRequest
	if patientID := r.URL.Query().Get("patient_id"); patientID != "" {
		requests = h.validationUsecase.GetRequestsByPatient(r.Context(), patientID)
	} else {
		requests = h.validationUsecase.GetPendingRequests(r.Context())
	}

	response.Success(w, http.StatusOK, "Referrals retrieved successfully", &dto.ReferralListResponse{
		Referrals: converter.ReferralsToResponses(requests),
		Total:     len(requests),
	})
}

func (h *ReferralHandler) CreateReferral(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if req.RequestedBy == "" {
		req.RequestedBy, _ = middleware.GetUserNameFromContext(r.Context())
	}

	request, err := h.validationUsecase.CreateReferral(r.Context(), &req)
	if err != nil {
		writeReferralError(w, err, "Failed to create referral")
		return
	}

	response.Success(w, http.StatusCreated, "Referral created successfully", converter.ReferralToResponse(request))
}

func (h *ReferralHandler) GetReferral(w http.ResponseWriter, r *http.Request) {
	request, err := h.validationUsecase.GetRequest(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeReferralError(w, err, "Failed to get referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral retrieved successfully", converter.ReferralToResponse(request))
}

func (h *ReferralHandler) ApproveReferral(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.validationUsecase.Approve, "Referral approved successfully")
}

func (h *ReferralHandler) RejectReferral(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.validationUsecase.Reject, "Referral rejected successfully")
}

func (h *ReferralHandler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, id string) (*entity.ValidationRequest, error),
	message string,
) {
	request, err := action(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeReferralError(w, err, "Failed to resolve referral")
		return
	}
	if request == nil {
		response.Success(w, http.StatusOK, "Referral was already resolved", nil)
		return
	}

	response.Success(w, http.StatusOK, message, converter.ReferralToResponse(request))
}

func writeReferralError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrValidationNotFound):
		response.NotFound(w, "Referral not found")
	case errors.Is(err, usecase.ErrInvalidReferral):
		response.BadRequest(w, err.Error())
	default:
		writePatientError(w, err, fallback)
	}
}
