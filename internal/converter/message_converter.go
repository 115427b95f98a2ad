package converter

import (
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
)

// MessageToResponse converts a Message entity to MessageResponse DTO
func MessageToResponse(message *entity.Message) *dto.MessageResponse {
	if message == nil {
		return nil
	}

	return &dto.MessageResponse{
		ID:             message.ID,
		PatientID:      message.PatientID,
		PatientName:    message.PatientName,
		PatientMessage: message.PatientMessage,
		DoctorResponse: message.DoctorResponse,
		Status:         string(message.Status),
		Date:           message.Date,
		AnsweredAt:     message.AnsweredAt,
	}
}

// MessagesToResponses converts a slice of Message entities to slice of MessageResponse DTOs
func MessagesToResponses(messages []entity.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = *MessageToResponse(&messages[i])
	}
	return responses
}
