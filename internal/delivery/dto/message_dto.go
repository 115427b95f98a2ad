package dto

import "time"

// Request DTOs

type SendMessageRequest struct {
	PatientID string `json:"patient_id" validate:"required"`
	Message   string `json:"message" validate:"required,max=2000"`
}

type AnswerMessageRequest struct {
	Response string `json:"response" validate:"required,max=2000"`
}

// Response DTOs

type MessageResponse struct {
	ID             string     `json:"id"`
	PatientID      string     `json:"patient_id"`
	PatientName    string     `json:"patient_name"`
	PatientMessage string     `json:"patient_message"`
	DoctorResponse string     `json:"doctor_response,omitempty"`
	Status         string     `json:"status"`
	Date           time.Time  `json:"date"`
	AnsweredAt     *time.Time `json:"answered_at,omitempty"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int               `json:"total"`
}
