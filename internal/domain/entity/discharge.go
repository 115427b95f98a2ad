package entity

import "time"

// Discharge is the write-once summary produced when an internment ends
type Discharge struct {
	ID                    string    `json:"id"`
	PatientID             string    `json:"patientId"`
	PatientName           string    `json:"patientName"`
	Location              string    `json:"location"`
	DaysOfInternment      int       `json:"daysOfInternment"`
	DaysWithFever         int       `json:"daysWithFever"`
	DaysWithLowSaturation int       `json:"daysWithLowSaturation"`
	DischargeNote         string    `json:"dischargeNote"`
	DischargeDate         time.Time `json:"dischargeDate"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func (d Discharge) RecordID() string      { return d.ID }
func (d Discharge) ModifiedAt() time.Time { return d.UpdatedAt }
