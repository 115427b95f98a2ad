package entity

import "time"

// ValidationStatus represents the state of a service transfer request
type ValidationStatus string

const (
	ValidationStatusPending  ValidationStatus = "pendente"
	ValidationStatusApproved ValidationStatus = "aprovada"
	ValidationStatusRejected ValidationStatus = "rejeitada"
)

// ValidationRequest asks to move a patient from one clinical service to another
type ValidationRequest struct {
	ID              string           `json:"id"`
	PatientID       string           `json:"patientId"`
	PatientName     string           `json:"patientName"`
	PreviousService string           `json:"previousService"`
	NewService      string           `json:"newService"`
	Status          ValidationStatus `json:"status"`
	RequestedBy     string           `json:"requestedBy,omitempty"`
	Reason          string           `json:"reason,omitempty"`
	RequestDate     time.Time        `json:"requestDate"`
	ResolvedAt      *time.Time       `json:"resolvedAt,omitempty"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (v ValidationRequest) RecordID() string      { return v.ID }
func (v ValidationRequest) ModifiedAt() time.Time { return v.UpdatedAt }

// IsPending checks if the request is still open
func (v *ValidationRequest) IsPending() bool {
	return v.Status == ValidationStatusPending
}

// Approve resolves the request as approved
func (v *ValidationRequest) Approve(at time.Time) {
	v.Status = ValidationStatusApproved
	v.ResolvedAt = &at
	v.UpdatedAt = at
}

// Reject resolves the request as rejected
func (v *ValidationRequest) Reject(at time.Time) {
	v.Status = ValidationStatusRejected
	v.ResolvedAt = &at
	v.UpdatedAt = at
}
