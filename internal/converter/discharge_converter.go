package converter

import (
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
)

// DischargeToResponse converts a Discharge entity to DischargeResponse DTO
func DischargeToResponse(discharge *entity.Discharge, state entity.SyncState) *dto.DischargeResponse {
	if discharge == nil {
		return nil
	}

	return &dto.DischargeResponse{
		ID:                    discharge.ID,
		PatientID:             discharge.PatientID,
		PatientName:           discharge.PatientName,
		Location:              discharge.Location,
		DaysOfInternment:      discharge.DaysOfInternment,
		DaysWithFever:         discharge.DaysWithFever,
		DaysWithLowSaturation: discharge.DaysWithLowSaturation,
		DischargeNote:         discharge.DischargeNote,
		DischargeDate:         discharge.DischargeDate,
		SyncState:             string(state),
	}
}

// DischargesToResponses converts discharges; state resolves the sync state of each one
func DischargesToResponses(discharges []entity.Discharge, state func(id string) entity.SyncState) []dto.DischargeResponse {
	responses := make([]dto.DischargeResponse, len(discharges))
	for i := range discharges {
		responses[i] = *DischargeToResponse(&discharges[i], state(discharges[i].ID))
	}
	return responses
}
