package converter

import (
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
)

// ReferralToResponse converts a ValidationRequest entity to ReferralResponse DTO
func ReferralToResponse(request *entity.ValidationRequest) *dto.ReferralResponse {
	if request == nil {
		return nil
	}

	return &dto.ReferralResponse{
		ID:              request.ID,
		PatientID:       request.PatientID,
		PatientName:     request.PatientName,
		PreviousService: request.PreviousService,
		NewService:      request.NewService,
		Status:          string(request.Status),
		RequestedBy:     request.RequestedBy,
		Reason:          request.Reason,
		RequestDate:     request.RequestDate,
		ResolvedAt:      request.ResolvedAt,
	}
}

// ReferralsToResponses converts a slice of ValidationRequest entities to slice of ReferralResponse DTOs
func ReferralsToResponses(requests []entity.ValidationRequest) []dto.ReferralResponse {
	responses := make([]dto.ReferralResponse, len(requests))
	for i := range requests {
		responses[i] = *ReferralToResponse(&requests[i])
	}
	return responses
}
