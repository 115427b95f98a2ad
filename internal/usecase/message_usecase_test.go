package usecase

import (
	"context"
	"testing"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageUsecase_SendAndAnswer(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	patient := admit(t, h, "Ana", "", "").Patient

	_, err := h.messages.SendMessage(ctx, &dto.SendMessageRequest{PatientID: patient.ID, Message: "  "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = h.messages.SendMessage(ctx, &dto.SendMessageRequest{PatientID: "missing", Message: "Oi"})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	first, err := h.messages.SendMessage(ctx, &dto.SendMessageRequest{PatientID: patient.ID, Message: "Quando recebo alta?"})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageStatusPending, first.Status)
	assert.Equal(t, "Ana", first.PatientName)

	second, err := h.messages.SendMessage(ctx, &dto.SendMessageRequest{PatientID: patient.ID, Message: "Posso receber visitas?"})
	require.NoError(t, err)

	answered, err := h.messages.AnswerMessage(ctx, first.ID, " Amanhã pela manhã ")
	require.NoError(t, err)
	require.NotNil(t, answered)
	assert.Equal(t, entity.MessageStatusAnswered, answered.Status)
	assert.Equal(t, "Amanhã pela manhã", answered.DoctorResponse)

	again, err := h.messages.AnswerMessage(ctx, first.ID, "De novo")
	require.NoError(t, err)
	assert.Nil(t, again)

	_, err = h.messages.AnswerMessage(ctx, second.ID, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = h.messages.AnswerMessage(ctx, "missing", "Ok")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	pending := h.messages.GetPendingMessages(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	all := h.messages.GetAllMessages(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	assert.Len(t, h.messages.GetMessagesByPatient(ctx, patient.ID), 2)
	assert.Empty(t, h.messages.GetMessagesByPatient(ctx, "other"))
}

func TestMessageUsecase_FailedAnswerRollsBack(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	patient := admit(t, h, "Ana", "", "").Patient
	message, err := h.messages.SendMessage(ctx, &dto.SendMessageRequest{PatientID: patient.ID, Message: "Oi"})
	require.NoError(t, err)

	h.store.setFailWrites(entity.CollectionMessages, true)
	_, err = h.messages.AnswerMessage(ctx, message.ID, "Olá")
	assert.ErrorIs(t, err, errStoreDown)

	assert.Len(t, h.messages.GetPendingMessages(ctx), 1)
}
