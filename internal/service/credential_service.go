package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"go-hospital-internment/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordLength   = 12
	AccessCodeLength = 6

	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars  = "abcdefghijkmnpqrstuvwxyz"
	digitChars  = "23456789"
	symbolChars = "!@#$%&*?"
)

// CredentialNotifier delivers freshly generated credentials to the patient
type CredentialNotifier interface {
	SendCredentials(ctx context.Context, patient entity.Patient, creds entity.PatientCredentials) error
}

// LogCredentialNotifier writes credentials to the operator log.
// It stands in for an e-mail or SMS provider.
type LogCredentialNotifier struct {
	log *logrus.Logger
}

func NewLogCredentialNotifier(log *logrus.Logger) *LogCredentialNotifier {
	return &LogCredentialNotifier{log: log}
}

func (n *LogCredentialNotifier) SendCredentials(_ context.Context, patient entity.Patient, creds entity.PatientCredentials) error {
	n.log.WithFields(logrus.Fields{
		"patient_id":  patient.ID,
		"user_number": patient.UserNumber,
		"email":       patient.Email,
		"password":    creds.Password,
		"access_code": creds.AccessCode,
	}).Info("Patient credentials issued")
	return nil
}

// CredentialService generates, hashes and checks patient credentials
type CredentialService struct {
	notifier CredentialNotifier
	log      *logrus.Logger
	cost     int
}

// NewCredentialService creates a CredentialService; cost is the bcrypt cost
func NewCredentialService(notifier CredentialNotifier, log *logrus.Logger, cost int) *CredentialService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{
		notifier: notifier,
		log:      log,
		cost:     cost,
	}
}

// Generate returns a random password with every character class and a numeric access code
func (s *CredentialService) Generate() (entity.PatientCredentials, error) {
	password, err := generatePassword(PasswordLength)
	if err != nil {
		return entity.PatientCredentials{}, fmt.Errorf("generate password: %w", err)
	}
	code, err := generateDigits(AccessCodeLength)
	if err != nil {
		return entity.PatientCredentials{}, fmt.Errorf("generate access code: %w", err)
	}
	return entity.PatientCredentials{Password: password, AccessCode: code}, nil
}

// Hash returns the bcrypt hashes of the password and the access code
func (s *CredentialService) Hash(creds entity.PatientCredentials) (string, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return "", "", err
	}
	hashedCode, err := bcrypt.GenerateFromPassword([]byte(creds.AccessCode), s.cost)
	if err != nil {
		return "", "", err
	}
	return string(hashedPassword), string(hashedCode), nil
}

// Matches checks a plain secret against its stored hash
func (s *CredentialService) Matches(hash, plain string) bool {
	if hash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Deliver hands the credentials to the notifier; failures are only logged
func (s *CredentialService) Deliver(ctx context.Context, patient entity.Patient, creds entity.PatientCredentials) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendCredentials(ctx, patient, creds); err != nil {
		s.log.Warnf("Failed to deliver credentials for patient %s: %+v", patient.ID, err)
	}
}

func generatePassword(length int) (string, error) {
	classes := []string{upperChars, lowerChars, digitChars, symbolChars}
	all := upperChars + lowerChars + digitChars + symbolChars

	out := make([]byte, 0, length)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// Fisher-Yates so the guaranteed classes are not always in front
	for i := len(out) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func generateDigits(length int) (string, error) {
	out := make([]byte, length)
	for i := range out {
		n, err := randomInt(10)
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + n)
	}
	return string(out), nil
}

func randomChar(alphabet string) (byte, error) {
	i, err := randomInt(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[i], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
