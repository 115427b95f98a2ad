package dto

import "time"

// Request DTOs

type CreateDoctorRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	CRM       string `json:"crm" validate:"required"`
	Specialty string `json:"specialty" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// Response DTOs

type DoctorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CRM       string    `json:"crm"`
	Specialty string    `json:"specialty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
