package dto

import "time"

// Request DTOs

type AdmitPatientRequest struct {
	Name              string `json:"name" validate:"required,max=255"`
	Email             string `json:"email" validate:"required,email"`
	UserNumber        string `json:"user_number" validate:"omitempty,numeric,len=6"`
	Diagnosis         string `json:"diagnosis"`
	Service           string `json:"service" validate:"required"`
	Observations      string `json:"observations"`
	Ward              string `json:"ward" validate:"required_with=Bed"`
	Bed               string `json:"bed" validate:"required_with=Ward"`
	Location          string `json:"location"`
	ValidationPending *bool  `json:"validation_pending"`
}

// UpdatePatientRequest only touches the fields that are present
type UpdatePatientRequest struct {
	Name                 *string `json:"name" validate:"omitempty,max=255"`
	Email                *string `json:"email" validate:"omitempty,email"`
	Diagnosis            *string `json:"diagnosis"`
	Service              *string `json:"service" validate:"omitempty,min=1"`
	Observations         *string `json:"observations"`
	Ward                 *string `json:"ward"`
	Bed                  *string `json:"bed"`
	Location             *string `json:"location"`
	ValidationPending    *bool   `json:"validation_pending"`
	EligibleForDischarge *bool   `json:"eligible_for_discharge"`
}

type VerifyAccessCodeRequest struct {
	AccessCode string `json:"access_code" validate:"required,numeric,len=6"`
}

// Response DTOs

type PatientResponse struct {
	ID                    string     `json:"id"`
	UserNumber            string     `json:"user_number"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	Diagnosis             string     `json:"diagnosis,omitempty"`
	Service               string     `json:"service"`
	Observations          string     `json:"observations,omitempty"`
	Ward                  string     `json:"ward,omitempty"`
	Bed                   string     `json:"bed,omitempty"`
	Location              string     `json:"location"`
	Status                string     `json:"status"`
	AdmissionDate         *time.Time `json:"admission_date,omitempty"`
	DaysOfHospitalization int        `json:"days_of_hospitalization"`
	ValidationPending     bool       `json:"validation_pending"`
	EligibleForDischarge  bool       `json:"eligible_for_discharge"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

type CredentialsResponse struct {
	Password   string `json:"password"`
	AccessCode string `json:"access_code"`
}

// AdmissionResponse is the only response that carries plain credentials
type AdmissionResponse struct {
	Patient     PatientResponse     `json:"patient"`
	Credentials CredentialsResponse `json:"credentials"`
}

type DashboardStatsResponse struct {
	ActivePatientsCount       int `json:"active_patients_count"`
	TotalInternments          int `json:"total_internments"`
	PendingValidationCount    int `json:"pending_validation_count"`
	EligibleForDischargeCount int `json:"eligible_for_discharge_count"`
}

type VerifyAccessCodeResponse struct {
	Valid bool `json:"valid"`
}
