package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-hospital-internment/internal/converter"
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/usecase"
	"go-hospital-internment/pkg/response"
	"go-hospital-internment/pkg/validator"

	"github.com/gorilla/mux"
)

type MessageHandler struct {
	messageUsecase usecase.MessageUsecase
	validator      *validator.CustomValidator
}

func NewMessageHandler(messageUsecase usecase.MessageUsecase, validator *validator.CustomValidator) *MessageHandler {
	return &MessageHandler{
		messageUsecase: messageUsecase,
		validator:      validator,
	}
}

// GetMessages returns the pending inbox; ?patient_id narrows to one patient
// and ?status=todos lists every message
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var messages []entity.Message
	switch {
	case query.Get("patient_id") != "":
		messages = h.messageUsecase.GetMessagesByPatient(r.Context(), query.Get("patient_id"))
	case query.Get("status") == "todos":
		messages = h.messageUsecase.GetAllMessages(r.Context())
	default:
		messages = h.messageUsecase.GetPendingMessages(r.Context())
	}

	response.Success(w, http.StatusOK, "Messages retrieved successfully", &dto.MessageListResponse{
		Messages: converter.MessagesToResponses(messages),
		Total:    len(messages),
	})
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	message, err := h.messageUsecase.SendMessage(r.Context(), &req)
	if err != nil {
		writeMessageError(w, err, "Failed to send message")
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", converter.MessageToResponse(message))
}

func (h *MessageHandler) AnswerMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.AnswerMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	message, err := h.messageUsecase.AnswerMessage(r.Context(), mux.Vars(r)["id"], req.Response)
	if err != nil {
		writeMessageError(w, err, "Failed to answer message")
		return
	}
	if message == nil {
		response.Success(w, http.StatusOK, "Message was already answered", nil)
		return
	}

	response.Success(w, http.StatusOK, "Message answered successfully", converter.MessageToResponse(message))
}

func writeMessageError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrMessageNotFound):
		response.NotFound(w, "Message not found")
	case errors.Is(err, usecase.ErrEmptyMessage):
		response.BadRequest(w, err.Error())
	default:
		writePatientError(w, err, fallback)
	}
}
