package entity

import (
	"fmt"
	"math"
	"time"
)

// PatientStatus represents the lifecycle status of an internment
type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "ativo"
	PatientStatusInactive PatientStatus = "inativo"

	// FilterAll is the sentinel that disables service/status filters
	FilterAll = "todos"
)

// Patient represents an interned patient
type Patient struct {
	ID                   string        `json:"id"`
	UserNumber           string        `json:"userNumber"`
	Name                 string        `json:"name"`
	Email                string        `json:"email"`
	Password             string        `json:"password,omitempty"`
	AccessCode           string        `json:"accessCode,omitempty"`
	Diagnosis            string        `json:"diagnosis,omitempty"`
	Service              string        `json:"service"`
	Observations         string        `json:"observations,omitempty"`
	Ward                 string        `json:"ward,omitempty"`
	Bed                  string        `json:"bed,omitempty"`
	StoredLocation       string        `json:"location,omitempty"`
	Status               PatientStatus `json:"status"`
	AdmissionDate        *time.Time    `json:"admissionDate,omitempty"`
	ValidationPending    bool          `json:"validationPending"`
	EligibleForDischarge bool          `json:"eligibleForDischarge"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// PatientCredentials are the plain credentials generated on admission
type PatientCredentials struct {
	Password   string `json:"password"`
	AccessCode string `json:"accessCode"`
}

func (p Patient) RecordID() string      { return p.ID }
func (p Patient) ModifiedAt() time.Time { return p.UpdatedAt }

// IsActive checks if the patient is still interned
func (p *Patient) IsActive() bool {
	return p.Status == PatientStatusActive
}

// HasPlacement checks if the patient is assigned to a ward bed
func (p *Patient) HasPlacement() bool {
	return p.Ward != "" && p.Bed != ""
}

// Location is derived from ward and bed, falling back to the stored text
func (p *Patient) Location() string {
	if p.HasPlacement() {
		return fmt.Sprintf("%s - Leito %s", p.Ward, p.Bed)
	}
	return p.StoredLocation
}

// DaysOfHospitalization counts started days since admission
func (p *Patient) DaysOfHospitalization(now time.Time) int {
	if p.AdmissionDate == nil || p.AdmissionDate.IsZero() {
		return 0
	}
	elapsed := now.Sub(*p.AdmissionDate)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Hours() / 24))
}

// WithoutCredentials returns a copy safe to hand out to readers
func (p Patient) WithoutCredentials() Patient {
	p.Password = ""
	p.AccessCode = ""
	return p
}

// Discharge closes the internment
func (p *Patient) Discharge() {
	p.Status = PatientStatusInactive
	p.EligibleForDischarge = false
}
