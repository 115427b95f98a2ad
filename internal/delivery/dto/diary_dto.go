package dto

import "time"

type VitalsDTO struct {
	Temperature string `json:"temperature,omitempty"`
	HeartRate   string `json:"heart_rate,omitempty"`
	SystolicBP  string `json:"systolic_bp,omitempty"`
	DiastolicBP string `json:"diastolic_bp,omitempty"`
	SpO2        string `json:"spo2,omitempty"`
}

type EliminationDTO struct {
	Diuresis   string `json:"diuresis,omitempty"`
	Evacuation string `json:"evacuation,omitempty"`
}

type MedicationDTO struct {
	Name   string `json:"name" validate:"required"`
	Dosage string `json:"dosage"`
	Time   string `json:"time"`
}

type ExamDTO struct {
	Type   string `json:"type" validate:"required"`
	Result string `json:"result"`
	Date   string `json:"date"`
}

// Request DTOs

type CreateDiaryEntryRequest struct {
	PatientID    string          `json:"patient_id" validate:"required"`
	Vitals       VitalsDTO       `json:"vitals"`
	Elimination  EliminationDTO  `json:"elimination"`
	Diagnosis    string          `json:"diagnosis"`
	Observations string          `json:"observations"`
	Medications  []MedicationDTO `json:"medications" validate:"omitempty,dive"`
	Exams        []ExamDTO       `json:"exams" validate:"omitempty,dive"`
	DoctorName   string          `json:"doctor_name"`
}

// Response DTOs

type DiaryEntryResponse struct {
	ID           string          `json:"id"`
	PatientID    string          `json:"patient_id"`
	Date         time.Time       `json:"date"`
	Vitals       VitalsDTO       `json:"vitals"`
	Elimination  EliminationDTO  `json:"elimination"`
	Diagnosis    string          `json:"diagnosis,omitempty"`
	Observations string          `json:"observations,omitempty"`
	Medications  []MedicationDTO `json:"medications"`
	Exams        []ExamDTO       `json:"exams"`
	DoctorName   string          `json:"doctor_name,omitempty"`
	SyncState    string          `json:"sync_state"`
}

type DiaryListResponse struct {
	Diaries []DiaryEntryResponse `json:"diaries"`
	Total   int                  `json:"total"`
}

type TrendSummaryResponse struct {
	PatientID             string   `json:"patient_id"`
	Days                  int      `json:"days"`
	TotalEntries          int      `json:"total_entries"`
	AverageTemperature    *float64 `json:"average_temperature"`
	AverageSpO2           *int     `json:"average_spo2"`
	DaysWithFever         int      `json:"days_with_fever"`
	DaysWithLowSaturation int      `json:"days_with_low_saturation"`
}
