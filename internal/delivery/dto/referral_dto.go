package dto

import "time"

// Request DTOs

type CreateReferralRequest struct {
	PatientID   string `json:"patient_id" validate:"required"`
	NewService  string `json:"new_service" validate:"required"`
	Reason      string `json:"reason" validate:"max=1000"`
	RequestedBy string `json:"requested_by"`
}

// Response DTOs

type ReferralResponse struct {
	ID              string     `json:"id"`
	PatientID       string     `json:"patient_id"`
	PatientName     string     `json:"patient_name"`
	PreviousService string     `json:"previous_service"`
	NewService      string     `json:"new_service"`
	Status          string     `json:"status"`
	RequestedBy     string     `json:"requested_by,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	RequestDate     time.Time  `json:"request_date"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

type ReferralListResponse struct {
	Referrals []ReferralResponse `json:"referrals"`
	Total     int                `json:"total"`
}
