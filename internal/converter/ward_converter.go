package converter

import (
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
)

// WardToResponse converts a Ward entity to WardResponse DTO
func WardToResponse(ward *entity.Ward) *dto.WardResponse {
	if ward == nil {
		return nil
	}

	beds := make([]dto.BedResponse, len(ward.Beds))
	for i, b := range ward.Beds {
		beds[i] = dto.BedResponse{
			Number:    b.Number,
			Occupied:  b.Occupied,
			PatientID: b.PatientID,
		}
	}

	return &dto.WardResponse{
		ID:            ward.ID,
		Name:          ward.Name,
		Service:       ward.Service,
		Status:        string(ward.Status),
		TotalBeds:     ward.TotalBeds,
		OccupiedBeds:  ward.OccupiedBeds,
		AvailableBeds: ward.AvailableBeds(),
		Beds:          beds,
		CreatedAt:     ward.CreatedAt,
		UpdatedAt:     ward.UpdatedAt,
	}
}

// WardsToResponses converts a slice of Ward entities to slice of WardResponse DTOs
func WardsToResponses(wards []entity.Ward) []dto.WardResponse {
	responses := make([]dto.WardResponse, len(wards))
	for i := range wards {
		responses[i] = *WardToResponse(&wards[i])
	}
	return responses
}

// WardsToAvailability converts wards to the short availability listing
func WardsToAvailability(wards []entity.Ward) []dto.AvailableWardResponse {
	responses := make([]dto.AvailableWardResponse, len(wards))
	for i := range wards {
		w := &wards[i]
		responses[i] = dto.AvailableWardResponse{
			ID:            w.ID,
			Name:          w.Name,
			Service:       w.Service,
			TotalBeds:     w.TotalBeds,
			OccupiedBeds:  w.OccupiedBeds,
			AvailableBeds: w.AvailableBeds(),
		}
	}
	return responses
}
