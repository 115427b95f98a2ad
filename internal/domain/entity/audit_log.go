package entity

import "time"

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        string      `json:"id"`
	Action    string      `json:"action"`
	Entity    string      `json:"entity"`
	EntityID  string      `json:"entityId"`
	OldValue  interface{} `json:"oldValue"`
	NewValue  interface{} `json:"newValue"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Common audit actions
const (
	AuditActionPatientAdmit     = "patient.admit"
	AuditActionPatientUpdate    = "patient.update"
	AuditActionPatientTransfer  = "patient.transfer"
	AuditActionPatientDischarge = "patient.discharge"
	AuditActionWardCreate       = "ward.create"
	AuditActionWardResize       = "ward.resize"
	AuditActionWardDelete       = "ward.delete"
	AuditActionReferralCreate   = "referral.create"
	AuditActionReferralApprove  = "referral.approve"
	AuditActionReferralReject   = "referral.reject"
)
