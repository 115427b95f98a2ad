package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrEmptyMessage    = errors.New("message text is required")
)

// PatientDirectory resolves patients by id
type PatientDirectory interface {
	GetPatient(ctx context.Context, id string) (*entity.Patient, error)
}

type MessageUsecase interface {
	Start(ctx context.Context) error
	Stop()
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*entity.Message, error)
	AnswerMessage(ctx context.Context, id string, response string) (*entity.Message, error)
	GetAllMessages(ctx context.Context) []entity.Message
	GetPendingMessages(ctx context.Context) []entity.Message
	GetMessagesByPatient(ctx context.Context, patientID string) []entity.Message
}

type messageUsecase struct {
	log      *logrus.Logger
	sync     *recordSync[entity.Message]
	patients PatientDirectory
	now      func() time.Time

	mu sync.Mutex
}

func NewMessageUsecase(log *logrus.Logger, store repository.RecordStore, patients PatientDirectory) MessageUsecase {
	return &messageUsecase{
		log:      log,
		sync:     newRecordSync[entity.Message](store, log, entity.CollectionMessages, "-date"),
		patients: patients,
		now:      time.Now,
	}
}

func (u *messageUsecase) Start(ctx context.Context) error {
	if _, err := u.sync.load(ctx); err != nil {
		u.log.Warnf("Failed to load messages, starting with an empty inbox: %+v", err)
	}
	u.sync.subscribe(ctx)
	return nil
}

func (u *messageUsecase) Stop() {
	u.sync.stop()
}

// SendMessage stores a question from a patient for the care team
func (u *messageUsecase) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*entity.Message, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	patient, err := u.patients.GetPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	message := entity.Message{
		PatientID:      patient.ID,
		PatientName:    patient.Name,
		PatientMessage: text,
		Status:         entity.MessageStatusPending,
		Date:           now,
		UpdatedAt:      now,
	}

	id, err := u.sync.add(ctx, message)
	if err != nil {
		u.log.Warnf("Failed to send message for patient %s: %+v", patient.ID, err)
		return nil, err
	}
	message.ID = id
	if state, ok := u.sync.records.State(id); !ok || state != entity.SyncStateSynced {
		u.sync.records.Put(message, entity.SyncStatePending)
	}

	return &message, nil
}

// AnswerMessage stores the doctor response; an answered message yields (nil, nil)
func (u *messageUsecase) AnswerMessage(ctx context.Context, id string, response string) (*entity.Message, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, ErrEmptyMessage
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrMessageNotFound
	}
	if current.IsAnswered() {
		return nil, nil
	}

	next := current
	now := u.now()
	next.Answer(response, now)

	fields := entity.JSON{
		"doctorResponse": response,
		"status":         string(next.Status),
		"answeredAt":     formatTime(now),
		"updatedAt":      formatTime(now),
	}
	if err := u.sync.commit(current, true, next, func() error { return u.sync.update(ctx, id, fields) }); err != nil {
		u.log.Warnf("Failed to answer message %s: %+v", id, err)
		return nil, err
	}

	return &next, nil
}

func (u *messageUsecase) GetAllMessages(ctx context.Context) []entity.Message {
	messages := u.sync.records.List()
	sortNewestFirst(messages, func(m entity.Message) time.Time { return m.Date })
	return messages
}

func (u *messageUsecase) GetPendingMessages(ctx context.Context) []entity.Message {
	messages := u.sync.records.Filter(func(m entity.Message) bool {
		return !m.IsAnswered()
	})
	sortNewestFirst(messages, func(m entity.Message) time.Time { return m.Date })
	return messages
}

func (u *messageUsecase) GetMessagesByPatient(ctx context.Context, patientID string) []entity.Message {
	messages := u.sync.records.Filter(func(m entity.Message) bool {
		return m.PatientID == patientID
	})
	sortNewestFirst(messages, func(m entity.Message) time.Time { return m.Date })
	return messages
}
