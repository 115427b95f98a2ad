package converter

import (
	"time"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO; credentials never leave here
func PatientToResponse(patient *entity.Patient, now time.Time) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:                    patient.ID,
		UserNumber:            patient.UserNumber,
		Name:                  patient.Name,
		Email:                 patient.Email,
		Diagnosis:             patient.Diagnosis,
		Service:               patient.Service,
		Observations:          patient.Observations,
		Ward:                  patient.Ward,
		Bed:                   patient.Bed,
		Location:              patient.Location(),
		Status:                string(patient.Status),
		AdmissionDate:         patient.AdmissionDate,
		DaysOfHospitalization: patient.DaysOfHospitalization(now),
		ValidationPending:     patient.ValidationPending,
		EligibleForDischarge:  patient.EligibleForDischarge,
		CreatedAt:             patient.CreatedAt,
		UpdatedAt:             patient.UpdatedAt,
	}
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient, now time.Time) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i], now)
	}
	return responses
}

// AdmissionToResponse includes the plain credentials generated on admission
func AdmissionToResponse(patient *entity.Patient, creds entity.PatientCredentials, now time.Time) *dto.AdmissionResponse {
	if patient == nil {
		return nil
	}

	return &dto.AdmissionResponse{
		Patient: *PatientToResponse(patient, now),
		Credentials: dto.CredentialsResponse{
			Password:   creds.Password,
			AccessCode: creds.AccessCode,
		},
	}
}
