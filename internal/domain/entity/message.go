package entity

import "time"

// MessageStatus represents whether a doctor answered a message
type MessageStatus string

const (
	MessageStatusPending  MessageStatus = "pendente"
	MessageStatusAnswered MessageStatus = "respondida"
)

// Message is a question sent on behalf of a patient to the care team
type Message struct {
	ID             string        `json:"id"`
	PatientID      string        `json:"patientId"`
	PatientName    string        `json:"patientName"`
	PatientMessage string        `json:"patientMessage"`
	DoctorResponse string        `json:"doctorResponse,omitempty"`
	Status         MessageStatus `json:"status"`
	Date           time.Time     `json:"date"`
	AnsweredAt     *time.Time    `json:"answeredAt,omitempty"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (m Message) RecordID() string      { return m.ID }
func (m Message) ModifiedAt() time.Time { return m.UpdatedAt }

// IsAnswered checks if the message already has a response
func (m *Message) IsAnswered() bool {
	return m.Status == MessageStatusAnswered
}

// Answer stores the doctor response
func (m *Message) Answer(response string, at time.Time) {
	m.DoctorResponse = response
	m.Status = MessageStatusAnswered
	m.AnsweredAt = &at
	m.UpdatedAt = at
}
