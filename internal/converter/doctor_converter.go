package converter

import (
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:        doctor.ID,
		Name:      doctor.Name,
		CRM:       doctor.CRM,
		Specialty: doctor.Specialty,
		Email:     doctor.Email,
		Active:    doctor.Active,
		CreatedAt: doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

// HospitalToResponse converts the hospital profile to HospitalResponse DTO
func HospitalToResponse(profile *entity.HospitalProfile) *dto.HospitalResponse {
	if profile == nil {
		return nil
	}

	return &dto.HospitalResponse{
		Name:      profile.Name,
		Address:   profile.Address,
		Phone:     profile.Phone,
		Services:  profile.Services,
		UpdatedAt: profile.UpdatedAt,
	}
}
