package dto

import "time"

// Request DTOs

type ProcessDischargeRequest struct {
	PatientID     string `json:"patient_id" validate:"required"`
	DischargeNote string `json:"discharge_note" validate:"max=5000"`
}

// Response DTOs

type DischargeResponse struct {
	ID                    string    `json:"id"`
	PatientID             string    `json:"patient_id"`
	PatientName           string    `json:"patient_name"`
	Location              string    `json:"location"`
	DaysOfInternment      int       `json:"days_of_internment"`
	DaysWithFever         int       `json:"days_with_fever"`
	DaysWithLowSaturation int       `json:"days_with_low_saturation"`
	DischargeNote         string    `json:"discharge_note"`
	DischargeDate         time.Time `json:"discharge_date"`
	SyncState             string    `json:"sync_state"`
}

type DischargeListResponse struct {
	Discharges []DischargeResponse `json:"discharges"`
	Total      int                 `json:"total"`
}

type DischargeCandidateResponse struct {
	PatientID                string               `json:"patient_id"`
	PatientName              string               `json:"patient_name"`
	Location                 string               `json:"location"`
	AdmissionDate            *time.Time           `json:"admission_date,omitempty"`
	DaysOfInternment         int                  `json:"days_of_internment"`
	Trend                    TrendSummaryResponse `json:"trend"`
	FeverThreshold           float64              `json:"fever_threshold"`
	LowSaturationThreshold   float64              `json:"low_saturation_threshold"`
	LowSaturationDescription string               `json:"low_saturation_description"`
}

type EligibilityResponse struct {
	PatientID string `json:"patient_id"`
	Eligible  bool   `json:"eligible"`
	Reason    string `json:"reason"`
}
